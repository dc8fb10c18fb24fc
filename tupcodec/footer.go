package tupcodec

// FooterContents is a decoded footer: the header's CRC (carried forward for
// integrity chaining), the cluster summaries in physical order, and the
// cluster groups.
type FooterContents struct {
	HeaderCRC32      uint32
	ClusterSummaries []ClusterSummary
	ClusterGroups    []ClusterGroup
}

// SerializeFooter emits the footer envelope: preamble, empty feature flags,
// the header's CRC-32 (read off ctx, which must already have served a
// real-buffer header serialize), an empty extension-headers list, an empty
// column-groups list, the cluster summaries in physical order (each built
// with ColumnGroupID = -1, since per-group clustering is not modeled),
// ctx's registered cluster groups, an empty metadata list, and the
// envelope postscript.
func SerializeFooter(ctx *Context, summaries []ClusterSummary, buf []byte) (int, error) {
	n := 0
	n += SerializeEnvelopePreamble(sliceFrom(buf, n))

	ffBytes, err := SerializeFeatureFlags(nil, sliceFrom(buf, n))
	if err != nil {
		return 0, err
	}
	n += ffBytes

	n += SerializeUInt32(ctx.HeaderCRC32(), sliceFrom(buf, n))

	// Extension headers are not yet supported; always an empty list.
	var frame []byte
	if buf != nil {
		frame = buf[n:]
	}
	pre, err := SerializeListFramePreamble(0, frame)
	if err != nil {
		return 0, err
	}
	if err := SerializeFramePostscript(frame, int32(pre)); err != nil {
		return 0, err
	}
	n += pre

	// Column groups (sub-field-group clustering) are not yet supported;
	// always an empty list.
	if buf != nil {
		frame = buf[n:]
	}
	pre, err = SerializeListFramePreamble(0, frame)
	if err != nil {
		return 0, err
	}
	if err := SerializeFramePostscript(frame, int32(pre)); err != nil {
		return 0, err
	}
	n += pre

	if buf != nil {
		frame = buf[n:]
	}
	pre, err = SerializeListFramePreamble(uint32(len(summaries)), frame)
	if err != nil {
		return 0, err
	}
	summariesBytes := 0
	for _, s := range summaries {
		s.ColumnGroupID = -1
		m, err := SerializeClusterSummary(s, sliceFrom(buf, n+pre+summariesBytes))
		if err != nil {
			return 0, err
		}
		summariesBytes += m
	}
	if err := SerializeFramePostscript(frame, int32(pre+summariesBytes)); err != nil {
		return 0, err
	}
	n += pre + summariesBytes

	groups := ctx.ClusterGroups()
	if buf != nil {
		frame = buf[n:]
	}
	pre, err = SerializeListFramePreamble(uint32(len(groups)), frame)
	if err != nil {
		return 0, err
	}
	groupsBytes := 0
	for _, g := range groups {
		m, err := SerializeClusterGroup(g, sliceFrom(buf, n+pre+groupsBytes))
		if err != nil {
			return 0, err
		}
		groupsBytes += m
	}
	if err := SerializeFramePostscript(frame, int32(pre+groupsBytes)); err != nil {
		return 0, err
	}
	n += pre + groupsBytes

	// Metadata (user-defined key/value pairs) is not yet supported; always
	// an empty list.
	if buf != nil {
		frame = buf[n:]
	}
	pre, err = SerializeListFramePreamble(0, frame)
	if err != nil {
		return 0, err
	}
	if err := SerializeFramePostscript(frame, int32(pre)); err != nil {
		return 0, err
	}
	n += pre

	var envelope []byte
	if buf != nil {
		envelope = buf[:n]
	}
	n += SerializeEnvelopePostscript(envelope, n, sliceFrom(buf, n))
	return n, nil
}

// DeserializeFooter decodes a complete footer envelope. Extension headers,
// column groups, and metadata are read and discarded, since this package
// does not yet model them.
func DeserializeFooter(buf []byte) (FooterContents, int, error) {
	n, err := DeserializeEnvelope(buf)
	if err != nil {
		return FooterContents{}, 0, err
	}

	_, m, err := DeserializeFeatureFlags(buf[n:])
	if err != nil {
		return FooterContents{}, 0, err
	}
	n += m

	headerCRC32, m, err := DeserializeUInt32(buf[n:])
	if err != nil {
		return FooterContents{}, 0, err
	}
	n += m

	// Extension headers: skip by frame size.
	m, err = skipFrame(buf[n:])
	if err != nil {
		return FooterContents{}, 0, err
	}
	n += m

	// Column groups: skip by frame size.
	m, err = skipFrame(buf[n:])
	if err != nil {
		return FooterContents{}, 0, err
	}
	n += m

	summaries, m, err := deserializeClusterSummaryList(buf[n:])
	if err != nil {
		return FooterContents{}, 0, err
	}
	n += m

	groups, m, err := deserializeClusterGroupList(buf[n:])
	if err != nil {
		return FooterContents{}, 0, err
	}
	n += m

	// Metadata: skip by frame size.
	m, err = skipFrame(buf[n:])
	if err != nil {
		return FooterContents{}, 0, err
	}
	n += m + envelopeTrailerSize

	return FooterContents{
		HeaderCRC32:      headerCRC32,
		ClusterSummaries: summaries,
		ClusterGroups:    groups,
	}, n, nil
}

// skipFrame reads a frame's declared size and returns it without decoding
// the frame's body.
func skipFrame(buf []byte) (int, error) {
	frameSize, _, _, err := DeserializeFrame(buf)
	if err != nil {
		return 0, err
	}
	return int(frameSize), nil
}

func deserializeClusterSummaryList(buf []byte) ([]ClusterSummary, int, error) {
	frameSize, nitems, hdrLen, err := DeserializeFrame(buf)
	if err != nil {
		return nil, 0, err
	}
	summaries := make([]ClusterSummary, 0, nitems)
	pos := hdrLen
	for i := uint32(0); i < nitems; i++ {
		s, m, err := DeserializeClusterSummary(buf[pos:frameSize])
		if err != nil {
			return nil, 0, err
		}
		summaries = append(summaries, s)
		pos += m
	}
	return summaries, int(frameSize), nil
}

func deserializeClusterGroupList(buf []byte) ([]ClusterGroup, int, error) {
	frameSize, nitems, hdrLen, err := DeserializeFrame(buf)
	if err != nil {
		return nil, 0, err
	}
	groups := make([]ClusterGroup, 0, nitems)
	pos := hdrLen
	for i := uint32(0); i < nitems; i++ {
		g, m, err := DeserializeClusterGroup(buf[pos:frameSize])
		if err != nil {
			return nil, 0, err
		}
		groups = append(groups, g)
		pos += m
	}
	return groups, int(frameSize), nil
}
