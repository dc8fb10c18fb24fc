package tupcodec

import "github.com/cockroachdb/errors"

// EnvelopeLink points to another envelope stored (possibly compressed)
// elsewhere: the uncompressed size of that envelope plus a Locator for its
// bytes.
type EnvelopeLink struct {
	UnzippedSize uint32
	Locator      Locator
}

// SerializeEnvelopeLink writes UnzippedSize followed by the locator.
func SerializeEnvelopeLink(l EnvelopeLink, buf []byte) (int, error) {
	n := SerializeUInt32(l.UnzippedSize, buf)
	var sub []byte
	if buf != nil {
		sub = buf[n:]
	}
	m, err := SerializeLocator(l.Locator, sub)
	if err != nil {
		return 0, err
	}
	return n + m, nil
}

// DeserializeEnvelopeLink reads an EnvelopeLink.
func DeserializeEnvelopeLink(buf []byte) (EnvelopeLink, int, error) {
	if len(buf) < 4 {
		return EnvelopeLink{}, 0, errors.Mark(errors.New("tupcodec: envelope link too short"), ErrBufferTooShort)
	}
	size, n, err := DeserializeUInt32(buf)
	if err != nil {
		return EnvelopeLink{}, 0, err
	}
	loc, m, err := DeserializeLocator(buf[n:])
	if err != nil {
		return EnvelopeLink{}, 0, err
	}
	return EnvelopeLink{UnzippedSize: size, Locator: loc}, n + m, nil
}

// ClusterSummary describes one cluster's entry range and, optionally, the
// column group it is restricted to.
type ClusterSummary struct {
	FirstEntry uint64
	NEntries   uint64
	// ColumnGroupID is -1 when the cluster covers all columns.
	ColumnGroupID int32
}

// SerializeClusterSummary wraps the summary in a record frame. If
// ColumnGroupID is non-negative, NEntries is emitted negated and
// ColumnGroupID follows as a uint32; otherwise NEntries is emitted
// unsigned and no column group id is written.
func SerializeClusterSummary(s ClusterSummary, buf []byte) (int, error) {
	var pos []byte
	if buf != nil {
		pos = buf
	}
	n := SerializeRecordFramePreamble(pos)
	if buf != nil {
		pos = buf[n:]
	}
	n += SerializeUInt64(s.FirstEntry, pos)
	if buf != nil {
		pos = buf[n:]
	}

	if s.ColumnGroupID >= 0 {
		n += SerializeInt64(-int64(s.NEntries), pos)
		if buf != nil {
			pos = buf[n:]
		}
		n += SerializeUInt32(uint32(s.ColumnGroupID), pos)
	} else {
		n += SerializeInt64(int64(s.NEntries), pos)
	}

	if err := SerializeFramePostscript(buf, int32(n)); err != nil {
		return 0, err
	}
	return n, nil
}

// DeserializeClusterSummary reads a record-frame-wrapped ClusterSummary and
// returns the full frame size consumed.
func DeserializeClusterSummary(buf []byte) (ClusterSummary, int, error) {
	frameSize, _, hdrLen, err := DeserializeFrame(buf)
	if err != nil {
		return ClusterSummary{}, 0, err
	}
	body := buf[hdrLen:frameSize]
	if len(body) < 16 {
		return ClusterSummary{}, 0, errors.Mark(errors.New("tupcodec: cluster summary too short"), ErrBufferTooShort)
	}

	firstEntry, n, err := DeserializeUInt64(body)
	if err != nil {
		return ClusterSummary{}, 0, err
	}
	nEntriesSigned, m, err := DeserializeInt64(body[n:])
	if err != nil {
		return ClusterSummary{}, 0, err
	}
	n += m

	summary := ClusterSummary{FirstEntry: firstEntry}
	if nEntriesSigned < 0 {
		if len(body)-n < 4 {
			return ClusterSummary{}, 0, errors.Mark(errors.New("tupcodec: cluster summary too short"), ErrBufferTooShort)
		}
		groupID, _, err := DeserializeUInt32(body[n:])
		if err != nil {
			return ClusterSummary{}, 0, err
		}
		summary.NEntries = uint64(-nEntriesSigned)
		summary.ColumnGroupID = int32(groupID)
	} else {
		summary.NEntries = uint64(nEntriesSigned)
		summary.ColumnGroupID = -1
	}
	return summary, int(frameSize), nil
}

// ClusterGroup is a set of clusters sharing a page-list envelope.
type ClusterGroup struct {
	NClusters uint32
	PageList  EnvelopeLink
}

// SerializeClusterGroup wraps the group in a record frame.
func SerializeClusterGroup(g ClusterGroup, buf []byte) (int, error) {
	n := SerializeRecordFramePreamble(buf)
	var pos []byte
	if buf != nil {
		pos = buf[n:]
	}
	n += SerializeUInt32(g.NClusters, pos)
	if buf != nil {
		pos = buf[n:]
	}
	m, err := SerializeEnvelopeLink(g.PageList, pos)
	if err != nil {
		return 0, err
	}
	n += m

	if err := SerializeFramePostscript(buf, int32(n)); err != nil {
		return 0, err
	}
	return n, nil
}

// DeserializeClusterGroup reads a record-frame-wrapped ClusterGroup and
// returns the full frame size consumed.
func DeserializeClusterGroup(buf []byte) (ClusterGroup, int, error) {
	frameSize, _, hdrLen, err := DeserializeFrame(buf)
	if err != nil {
		return ClusterGroup{}, 0, err
	}
	body := buf[hdrLen:frameSize]
	if len(body) < 4 {
		return ClusterGroup{}, 0, errors.Mark(errors.New("tupcodec: cluster group too short"), ErrBufferTooShort)
	}
	nClusters, n, err := DeserializeUInt32(body)
	if err != nil {
		return ClusterGroup{}, 0, err
	}
	link, _, err := DeserializeEnvelopeLink(body[n:])
	if err != nil {
		return ClusterGroup{}, 0, err
	}
	return ClusterGroup{NClusters: nClusters, PageList: link}, int(frameSize), nil
}
