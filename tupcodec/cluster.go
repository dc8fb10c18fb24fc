package tupcodec

import "sort"

// SerializeClusterEnvelope emits the standalone per-cluster envelope
// variant: envelope preamble, an outer list frame over the cluster's
// columns (ascending physical column ID), each holding an inner list frame
// of that column's page infos.
//
// Both list-frame preambles are written with nitems = 0 even though items
// follow — this reproduces the on-disk behavior exactly; a reader that
// trusts the declared nitems rather than walking by frame size will see an
// empty list. See DESIGN.md for the decision to keep this byte-for-byte.
func SerializeClusterEnvelope(desc Descriptor, ctx *Context, memClusterID uint64, buf []byte) (int, error) {
	cluster := desc.ClusterByID(memClusterID)

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
	n += SerializeEnvelopePreamble(sliceFrom(buf, n))

	outerStart := n
	var outer []byte
	if buf != nil {
		outer = buf[n:]
	}
	pre, err := SerializeListFramePreamble(0, outer)
	if err != nil {
		return 0, err
	}
	n += pre

	for _, physColumnID := range physColumnIDs {
		memColumnID, err := ctx.MemColumnID(physColumnID)
		if err != nil {
			return 0, err
		}
		m, err := serializeClusterColumnPages(cluster.PageRange(memColumnID), sliceFrom(buf, n))
		if err != nil {
			return 0, err
		}
		n += m
	}
	if err := SerializeFramePostscript(outer, int32(n-outerStart)); err != nil {
		return 0, err
	}

	var envelope []byte
	if buf != nil {
		envelope = buf[:n]
	}
	n += SerializeEnvelopePostscript(envelope, n, sliceFrom(buf, n))
	return n, nil
}

// serializeClusterColumnPages wraps one column's page infos in a list frame
// whose preamble is also written with nitems = 0; see SerializeClusterEnvelope.
func serializeClusterColumnPages(pr PageRange, buf []byte) (int, error) {
	n, err := SerializeListFramePreamble(0, buf)
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

// DeserializeClusterEnvelope decodes the standalone per-cluster envelope
// variant. Since the on-disk nitems fields are zero placeholders (see
// SerializeClusterEnvelope), it walks by frame size rather than declared
// item count to recover every column and page actually present.
func DeserializeClusterEnvelope(buf []byte) ([]ColumnPageRange, int, error) {
	n, err := DeserializeEnvelope(buf)
	if err != nil {
		return nil, 0, err
	}

	frameSize, _, hdrLen, err := DeserializeFrame(buf[n:])
	if err != nil {
		return nil, 0, err
	}
	outerEnd := n + int(frameSize)
	pos := n + hdrLen

	var cols []ColumnPageRange
	for pos < outerEnd {
		pages, m, err := deserializeClusterColumnPages(buf[pos:outerEnd])
		if err != nil {
			return nil, 0, err
		}
		cols = append(cols, ColumnPageRange{Ordinal: len(cols), Pages: pages})
		pos += m
	}

	n = outerEnd + envelopeTrailerSize
	return cols, n, nil
}

func deserializeClusterColumnPages(buf []byte) ([]PageInfo, int, error) {
	frameSize, _, hdrLen, err := DeserializeFrame(buf)
	if err != nil {
		return nil, 0, err
	}
	innerEnd := int(frameSize)
	n := hdrLen

	var infos []PageInfo
	for n < innerEnd {
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
