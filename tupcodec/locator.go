package tupcodec

import "github.com/cockroachdb/errors"

const locatorURLTag = 0x02

// maxInlineBytesOnStorage is the largest value that still fits in a
// signed 32-bit field: 2^31 - 1.
const maxInlineBytesOnStorage = 1<<31 - 1

// maxURLLength is the largest URL length the locator's 24-bit length field
// can hold: 2^24 - 1.
const maxURLLength = 1<<24 - 1

// Locator points to a byte range, either inline (an offset/size pair) or a
// URL string.
type Locator struct {
	// BytesOnStorage and Position are populated for the inline form.
	BytesOnStorage uint32
	Position       uint64
	// URL is populated (non-empty) for the URL form; its presence
	// distinguishes the two forms on serialize exactly as the on-disk
	// head's sign distinguishes them on deserialize.
	URL string
}

// SerializeLocator writes the 12-byte inline form (bytes_on_storage then
// position) or, if l.URL is non-empty, the URL form: a signed 32-bit head
// of -((0x02<<24) | length) followed by length raw bytes.
func SerializeLocator(l Locator, buf []byte) (int, error) {
	if l.URL != "" {
		if len(l.URL) > maxURLLength {
			return 0, errors.Mark(errors.Newf("tupcodec: locator url of %d bytes too large", len(l.URL)), ErrLocatorTooLarge)
		}
		head := -int32(locatorURLTag<<24 | uint32(len(l.URL)))
		n := SerializeInt32(head, buf)
		if buf != nil {
			copy(buf[n:], l.URL)
		}
		return n + len(l.URL), nil
	}

	if l.BytesOnStorage > maxInlineBytesOnStorage {
		return 0, errors.Mark(errors.Newf("tupcodec: locator bytes_on_storage %d too large", l.BytesOnStorage), ErrLocatorTooLarge)
	}
	n := SerializeUInt32(l.BytesOnStorage, buf)
	var sub []byte
	if buf != nil {
		sub = buf[n:]
	}
	n += SerializeUInt64(l.Position, sub)
	return n, nil
}

// DeserializeLocator reads a locator: a non-negative head selects the
// inline form, a negative head selects the URL form (whose tag, the high
// byte of the negated head, must equal 0x02).
func DeserializeLocator(buf []byte) (Locator, int, error) {
	head, n, err := DeserializeInt32(buf)
	if err != nil {
		return Locator{}, 0, err
	}
	if head < 0 {
		magnitude := uint32(-head)
		tag := magnitude >> 24
		if tag != locatorURLTag {
			return Locator{}, 0, errors.Mark(errors.Newf("tupcodec: unsupported locator type %#x", tag), ErrUnsupportedLocatorType)
		}
		length := magnitude & 0x00FFFFFF
		if uint32(len(buf)-n) < length {
			return Locator{}, 0, errors.Mark(errors.New("tupcodec: locator too short"), ErrBufferTooShort)
		}
		return Locator{URL: string(buf[n : n+int(length)])}, n + int(length), nil
	}

	if len(buf)-n < 8 {
		return Locator{}, 0, errors.Mark(errors.New("tupcodec: locator too short"), ErrBufferTooShort)
	}
	position, m, err := DeserializeUInt64(buf[n:])
	if err != nil {
		return Locator{}, 0, err
	}
	return Locator{BytesOnStorage: uint32(head), Position: position}, n + m, nil
}
