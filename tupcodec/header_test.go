package tupcodec_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/tuplestore/tupcodec/tupcodec"
)

func TestSerializeHeaderSizeOnlyMatchesRealEmit(t *testing.T) {
	desc, _, _, _ := buildFixtureDescriptor()

	dryN, _, err := tupcodec.SerializeHeader(desc, nil)
	require.NoError(t, err)

	buf := make([]byte, dryN)
	realN, ctx, err := tupcodec.SerializeHeader(desc, buf)
	require.NoError(t, err)
	require.Equal(t, dryN, realN)
	require.NotZero(t, ctx.HeaderSize())
}

func TestSerializeHeaderAssignsBFSPhysicalFieldIDs(t *testing.T) {
	desc, _, _, _ := buildFixtureDescriptor()

	n, _, _ := tupcodec.SerializeHeader(desc, nil) // nolint:errcheck
	buf := make([]byte, n)
	_, ctx, err := tupcodec.SerializeHeader(desc, buf)
	require.NoError(t, err)

	// Root is mapped first, then its direct children (id, tags) in
	// descriptor order, then tags' own child (_0) — breadth-first.
	root := desc.FieldZeroID()
	rootPhys, err := ctx.PhysFieldID(root)
	require.NoError(t, err)
	require.Equal(t, uint32(0), rootPhys)

	idFields := desc.FieldsUnder(root)
	require.Len(t, idFields, 2)
	idPhys, err := ctx.PhysFieldID(idFields[0].ID())
	require.NoError(t, err)
	require.Equal(t, uint32(1), idPhys)

	tagsPhys, err := ctx.PhysFieldID(idFields[1].ID())
	require.NoError(t, err)
	require.Equal(t, uint32(2), tagsPhys)

	grandchild := desc.FieldsUnder(idFields[1].ID())
	require.Len(t, grandchild, 1)
	gcPhys, err := ctx.PhysFieldID(grandchild[0].ID())
	require.NoError(t, err)
	require.Equal(t, uint32(3), gcPhys)
}

func TestHeaderRoundTrip(t *testing.T) {
	desc, _, _, _ := buildFixtureDescriptor()

	n, _, err := tupcodec.SerializeHeader(desc, nil)
	require.NoError(t, err)
	buf := make([]byte, n)
	written, ctx, err := tupcodec.SerializeHeader(desc, buf)
	require.NoError(t, err)
	require.Equal(t, n, written)
	require.NotNil(t, ctx)

	got, consumed, err := tupcodec.DeserializeHeader(buf)
	require.NoError(t, err)
	require.Equal(t, n, consumed)
	require.Equal(t, "events", got.Name)
	require.Equal(t, "a small event log", got.Description)
	require.Equal(t, []uint64{0}, got.FeatureFlags)
	require.Len(t, got.Fields, 3)
	require.Len(t, got.Columns, 2)
	require.Empty(t, got.AliasColumns)

	require.Equal(t, "id", got.Fields[0].Name)
	require.Equal(t, uint32(0), got.Fields[0].ParentPhysicalID)
	require.Equal(t, "tags", got.Fields[1].Name)
	require.Equal(t, "_0", got.Fields[2].Name)
	require.Equal(t, uint32(2), got.Fields[2].ParentPhysicalID) // under tags

	require.True(t, got.Columns[0].IsSortAscending())
	require.Equal(t, tupcodec.ColumnTypeInt32, got.Columns[0].Type)
	require.False(t, got.Columns[1].IsSortAscending())
	require.Equal(t, tupcodec.ColumnTypeReal64, got.Columns[1].Type)
}

func TestHeaderEnvelopeChecksumDetectsMutation(t *testing.T) {
	desc, _, _, _ := buildFixtureDescriptor()
	n, _, _ := tupcodec.SerializeHeader(desc, nil) // nolint:errcheck
	buf := make([]byte, n)
	tupcodec.SerializeHeader(desc, buf) // nolint:errcheck

	buf[len(buf)/2] ^= 0xFF
	_, _, err := tupcodec.DeserializeHeader(buf)
	require.True(t, errors.Is(err, tupcodec.ErrChecksumMismatch), "err = %v", err)
}
