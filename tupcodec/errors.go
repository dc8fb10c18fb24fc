package tupcodec

import "github.com/cockroachdb/errors"

// Sentinel errors for the codec's failure taxonomy. Failures carry these
// as marks (errors.Mark), so callers match a class of failure with
// errors.Is from github.com/cockroachdb/errors; the standard library's
// errors.Is does not see the marks. The error's own message carries
// call-specific detail (offset, expected vs. actual size, and so on).
var (
	// ErrBufferTooShort is returned when a deserialize call is handed
	// fewer bytes than the data it is decoding requires.
	ErrBufferTooShort = errors.New("tupcodec: buffer too short")
	// ErrChecksumMismatch is returned when a trailing CRC-32 does not
	// match the recomputed checksum of the preceding bytes.
	ErrChecksumMismatch = errors.New("tupcodec: checksum mismatch")
	// ErrFormatTooOld is returned when an envelope's version_at_write
	// predates the oldest version this package can read.
	ErrFormatTooOld = errors.New("tupcodec: format too old")
	// ErrFormatTooNew is returned when an envelope's version_min_required
	// exceeds the current version this package implements.
	ErrFormatTooNew = errors.New("tupcodec: format too new")
	// ErrUnexpectedValue is returned when an enum or tag decode encounters
	// a value outside its known table.
	ErrUnexpectedValue = errors.New("tupcodec: unexpected on-disk value")
	// ErrUnsupportedLocatorType is returned when a locator's type tag is
	// not the one byte value this package understands.
	ErrUnsupportedLocatorType = errors.New("tupcodec: unsupported locator type")
	// ErrLocatorTooLarge is returned when a locator's size/length would
	// not fit in the bits the wire format reserves for it.
	ErrLocatorTooLarge = errors.New("tupcodec: locator too large")
	// ErrListFrameTooLarge is returned when a list frame's item count is
	// at or beyond 2^28.
	ErrListFrameTooLarge = errors.New("tupcodec: list frame too large")
	// ErrFrameTooShort is returned when a frame's declared or actual size
	// is smaller than its minimum (4 bytes record, 8 bytes list).
	ErrFrameTooShort = errors.New("tupcodec: frame too short")
	// ErrFrameTooLarge is returned when a frame's size would require a
	// negative signed 32-bit marker product.
	ErrFrameTooLarge = errors.New("tupcodec: frame too large")
	// ErrFeatureFlagOutOfBounds is returned when a feature flag value does
	// not fit in a non-negative int64 (it exceeds 2^63-1) at serialize time.
	ErrFeatureFlagOutOfBounds = errors.New("tupcodec: feature flag out of bounds")
	// ErrUnknownID is returned by Context lookups given an ID that was
	// never mapped; this indicates a programmer error in the caller.
	ErrUnknownID = errors.New("tupcodec: unknown id")
)
