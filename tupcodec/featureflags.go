package tupcodec

import "github.com/cockroachdb/errors"

// SerializeFeatureFlags encodes flags as a sign-bit-continuation stream of
// int64 values: every flag is emitted negated except the last, which is
// emitted verbatim (non-negative), terminating the list. An empty list
// encodes as the single value 0.
func SerializeFeatureFlags(flags []uint64, buf []byte) (int, error) {
	if len(flags) == 0 {
		return SerializeInt64(0, buf), nil
	}

	n := 0
	for i, f := range flags {
		if f > 1<<63-1 {
			return 0, errors.Mark(errors.Newf("tupcodec: feature flag %d out of bounds", f), ErrFeatureFlagOutOfBounds)
		}
		var pos []byte
		if buf != nil {
			pos = buf[n:]
		}
		if i == len(flags)-1 {
			n += SerializeInt64(int64(f), pos)
		} else {
			n += SerializeInt64(-int64(f), pos)
		}
	}
	return n, nil
}

// DeserializeFeatureFlags reads int64 values until one is non-negative;
// each value's magnitude is a flag. It returns the decoded flags and the
// total bytes consumed.
func DeserializeFeatureFlags(buf []byte) ([]uint64, int, error) {
	var flags []uint64
	n := 0
	for {
		v, m, err := DeserializeInt64(buf[n:])
		if err != nil {
			return nil, 0, err
		}
		n += m
		if v < 0 {
			flags = append(flags, uint64(-v))
			continue
		}
		flags = append(flags, uint64(v))
		return flags, n, nil
	}
}
