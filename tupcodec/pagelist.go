package tupcodec

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// ColumnPageRange is one column's page range within one cluster. The wire
// format carries columns in ascending physical-column-ID order but does not
// write the IDs themselves, so Ordinal is only the column's position in
// that order (0-based); recovering the actual physical column ID requires
// the same ascending column set the header/context already determined for
// that cluster.
type ColumnPageRange struct {
	Ordinal int
	Pages   []PageInfo
}

// ClusterPageList is one cluster's page lists, one per column it covers, in
// ascending physical-column-ID order. Ordinal is this cluster's position in
// the page list's outer frame, not its physical cluster ID — the caller
// supplies the physical cluster IDs (and their order) on serialize, and
// must replay the same list to recover them on deserialize.
type ClusterPageList struct {
	Ordinal int
	Columns []ColumnPageRange
}

// SerializePageList emits a page-list envelope for the given physical
// cluster IDs, in the order supplied: envelope preamble, an outer list
// frame of len(physClusterIDs) items, and for each cluster an inner list
// frame of its columns (by ascending physical column ID), each holding a
// further inner list frame of that column's page infos. It returns the
// number of bytes written (or, if buf is nil, that would be written).
func SerializePageList(desc Descriptor, ctx *Context, physClusterIDs []uint32, buf []byte) (int, error) {
	n := 0
	n += SerializeEnvelopePreamble(sliceFrom(buf, n))

	var outer []byte
	if buf != nil {
		outer = buf[n:]
	}
	pre, err := SerializeListFramePreamble(uint32(len(physClusterIDs)), outer)
	if err != nil {
		return 0, err
	}
	clustersStart := n + pre

	clustersBytes := 0
	for _, physClusterID := range physClusterIDs {
		m, err := serializeClusterPageList(desc, ctx, physClusterID, sliceFrom(buf, clustersStart+clustersBytes))
		if err != nil {
			return 0, err
		}
		clustersBytes += m
	}
	if err := SerializeFramePostscript(outer, int32(pre+clustersBytes)); err != nil {
		return 0, err
	}
	n = clustersStart + clustersBytes

	var envelope []byte
	if buf != nil {
		envelope = buf[:n]
	}
	n += SerializeEnvelopePostscript(envelope, n, sliceFrom(buf, n))
	return n, nil
}

// serializeClusterPageList emits one cluster's entry in the page list's
// outer frame: the cluster's columns, by ascending physical column ID,
// each wrapped in an inner list frame of page infos.
func serializeClusterPageList(desc Descriptor, ctx *Context, physClusterID uint32, buf []byte) (int, error) {
	memClusterID, err := ctx.MemClusterID(physClusterID)
	if err != nil {
		return 0, err
	}
	cluster := desc.ClusterByID(memClusterID)
	if cluster == nil {
		return 0, errors.AssertionFailedf("tupcodec: no cluster descriptor for mem id %d", memClusterID)
	}

	physColumnIDs := make([]uint32, 0, len(cluster.ColumnIDs()))
	for _, memColumnID := range cluster.ColumnIDs() {
		physColumnID, err := ctx.PhysColumnID(memColumnID)
		if err != nil {
			return 0, err
		}
		physColumnIDs = append(physColumnIDs, physColumnID)
	}
	sort.Slice(physColumnIDs, func(i, j int) bool { return physColumnIDs[i] < physColumnIDs[j] })

	n := 0
	var outer []byte
	if buf != nil {
		outer = buf
	}
	pre, err := SerializeListFramePreamble(uint32(len(physColumnIDs)), outer)
	if err != nil {
		return 0, err
	}
	n += pre

	for _, physColumnID := range physColumnIDs {
		memColumnID, err := ctx.MemColumnID(physColumnID)
		if err != nil {
			return 0, err
		}
		m, err := serializePageRange(cluster.PageRange(memColumnID), sliceFrom(buf, n))
		if err != nil {
			return 0, err
		}
		n += m
	}

	if err := SerializeFramePostscript(outer, int32(n)); err != nil {
		return 0, err
	}
	return n, nil
}

// serializePageRange wraps a single column's page infos in a list frame.
func serializePageRange(pr PageRange, buf []byte) (int, error) {
	n, err := SerializeListFramePreamble(uint32(len(pr.PageInfos)), buf)
	if err != nil {
		return 0, err
	}
	for _, pi := range pr.PageInfos {
		var pos []byte
		if buf != nil {
			pos = buf[n:]
		}
		n += SerializeUInt32(pi.NElements, pos)
		if buf != nil {
			pos = buf[n:]
		}
		m, err := SerializeLocator(pi.Locator, pos)
		if err != nil {
			return 0, err
		}
		n += m
	}
	if err := SerializeFramePostscript(buf, int32(n)); err != nil {
		return 0, err
	}
	return n, nil
}

// DeserializePageList decodes a page-list envelope into per-cluster,
// per-column page ranges, in on-disk order.
func DeserializePageList(buf []byte) ([]ClusterPageList, int, error) {
	n, err := DeserializeEnvelope(buf)
	if err != nil {
		return nil, 0, err
	}

	frameSize, nClusters, hdrLen, err := DeserializeFrame(buf[n:])
	if err != nil {
		return nil, 0, err
	}
	clusters := make([]ClusterPageList, 0, nClusters)
	pos := n + hdrLen
	for i := uint32(0); i < nClusters; i++ {
		cluster, m, err := deserializeClusterPageList(buf[pos : n+int(frameSize)])
		if err != nil {
			return nil, 0, err
		}
		cluster.Ordinal = int(i)
		clusters = append(clusters, cluster)
		pos += m
	}
	n += int(frameSize) + envelopeTrailerSize
	return clusters, n, nil
}

func deserializeClusterPageList(buf []byte) (ClusterPageList, int, error) {
	frameSize, nColumns, hdrLen, err := DeserializeFrame(buf)
	if err != nil {
		return ClusterPageList{}, 0, err
	}
	cols := make([]ColumnPageRange, 0, nColumns)
	pos := hdrLen
	for i := uint32(0); i < nColumns; i++ {
		pages, m, err := deserializePageRange(buf[pos:frameSize])
		if err != nil {
			return ClusterPageList{}, 0, err
		}
		cols = append(cols, ColumnPageRange{Ordinal: int(i), Pages: pages})
		pos += m
	}
	return ClusterPageList{Columns: cols}, int(frameSize), nil
}

func deserializePageRange(buf []byte) ([]PageInfo, int, error) {
	frameSize, nPages, hdrLen, err := DeserializeFrame(buf)
	if err != nil {
		return nil, 0, err
	}
	infos := make([]PageInfo, 0, nPages)
	n := hdrLen
	for i := uint32(0); i < nPages; i++ {
		nElements, m, err := DeserializeUInt32(buf[n:])
		if err != nil {
			return nil, 0, err
		}
		n += m
		loc, m, err := DeserializeLocator(buf[n:])
		if err != nil {
			return nil, 0, err
		}
		n += m
		infos = append(infos, PageInfo{NElements: nElements, Locator: loc})
	}
	return infos, int(frameSize), nil
}
