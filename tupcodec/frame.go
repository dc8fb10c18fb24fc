package tupcodec

import "github.com/cockroachdb/errors"

const (
	minRecordFrameSize = 4
	minListFrameSize   = 8
	maxListItems       = 1 << 28
	// readNItemsMask reproduces the on-disk reader's mask exactly as
	// documented: `& ((2<<28) - 1)`, one bit wider than the write-side
	// guard (`< 1<<28`). A faithful reimplementation preserves this
	// mismatch rather than silently tightening it; see DESIGN.md.
	readNItemsMask = (2 << 28) - 1
)

// SerializeRecordFramePreamble reserves the 4-byte marker slot for a record
// frame (written as +1 so the postscript's marker*size becomes +size) and
// returns 4.
func SerializeRecordFramePreamble(buf []byte) int {
	return SerializeInt32(1, buf)
}

// SerializeListFramePreamble reserves the 4-byte marker slot for a list
// frame (written as -1) followed by a 4-byte nitems, and returns 8. It
// fails if nitems would not fit the 28 bits the wire format reserves for
// it.
func SerializeListFramePreamble(nitems uint32, buf []byte) (int, error) {
	if nitems >= maxListItems {
		return 0, errors.Mark(errors.Newf("tupcodec: list frame too large: %d items", nitems), ErrListFrameTooLarge)
	}
	n := SerializeInt32(-1, buf)
	var sub []byte
	if buf != nil {
		sub = buf[n:]
	}
	n += SerializeUInt32(nitems, sub)
	return n, nil
}

// SerializeFramePostscript back-patches the marker reserved by the
// preamble at the start of frame with marker*size: +size for a record
// frame, -size for a list frame. It returns only an error: the postscript
// occupies no additional bytes, it only rewrites bytes already reserved.
func SerializeFramePostscript(frame []byte, size int32) error {
	if size < 0 {
		return errors.Mark(errors.Newf("tupcodec: frame too large: %d", size), ErrFrameTooLarge)
	}
	if size < minRecordFrameSize {
		return errors.Mark(errors.Newf("tupcodec: frame too short: %d", size), ErrFrameTooShort)
	}
	if frame == nil {
		return nil
	}
	marker, _, err := DeserializeInt32(frame)
	if err != nil {
		return err
	}
	if marker < 0 && size < minListFrameSize {
		return errors.Mark(errors.Newf("tupcodec: frame too short: %d", size), ErrFrameTooShort)
	}
	SerializeInt32(marker*size, frame)
	return nil
}

// DeserializeFrame reads the signed 32-bit head at buf[0:4]. A non-negative
// head is a record frame of that size with nitems = 1; a negative head is
// a list frame of |head| bytes, followed by a uint32 nitems masked to the
// reader's (intentionally wider, see DESIGN.md) 28-bit window. It returns
// the frame size, the item count, and the number of header bytes consumed
// (4 for a record frame, 8 for a list frame), leaving the caller positioned
// at the first payload byte.
func DeserializeFrame(buf []byte) (frameSize uint32, nitems uint32, headerLen int, err error) {
	if len(buf) < 4 {
		return 0, 0, 0, errors.Mark(errors.New("tupcodec: frame too short"), ErrFrameTooShort)
	}
	head, n, err := DeserializeInt32(buf)
	if err != nil {
		return 0, 0, 0, err
	}
	if head >= 0 {
		frameSize = uint32(head)
		nitems = 1
		if frameSize < minRecordFrameSize {
			return 0, 0, 0, errors.Mark(errors.Newf("tupcodec: corrupt frame size %d", frameSize), ErrFrameTooShort)
		}
	} else {
		if len(buf) < 8 {
			return 0, 0, 0, errors.Mark(errors.New("tupcodec: frame too short"), ErrFrameTooShort)
		}
		raw, m, err := DeserializeUInt32(buf[n:])
		if err != nil {
			return 0, 0, 0, err
		}
		n += m
		nitems = raw & readNItemsMask
		frameSize = uint32(-head)
		if frameSize < minListFrameSize {
			return 0, 0, 0, errors.Mark(errors.Newf("tupcodec: corrupt frame size %d", frameSize), ErrFrameTooShort)
		}
	}
	if uint32(len(buf)) < frameSize {
		return 0, 0, 0, errors.Mark(
			errors.Newf("tupcodec: frame declares %d bytes, buffer has %d", frameSize, len(buf)), ErrFrameTooShort)
	}
	return frameSize, nitems, n, nil
}
