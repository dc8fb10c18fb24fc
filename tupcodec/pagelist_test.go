package tupcodec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuplestore/tupcodec/tupcodec"
)

func TestPageListRoundTrip(t *testing.T) {
	desc, _, _, clusterID := buildFixtureDescriptor()

	headerSize, _, err := tupcodec.SerializeHeader(desc, nil)
	require.NoError(t, err)
	_, ctx, err := tupcodec.SerializeHeader(desc, make([]byte, headerSize))
	require.NoError(t, err)

	physCluster := ctx.MapClusterID(clusterID)
	require.Equal(t, uint32(0), physCluster)

	n, err := tupcodec.SerializePageList(desc, ctx, []uint32{physCluster}, nil)
	require.NoError(t, err)
	buf := make([]byte, n)
	written, err := tupcodec.SerializePageList(desc, ctx, []uint32{physCluster}, buf)
	require.NoError(t, err)
	require.Equal(t, n, written)

	clusters, consumed, err := tupcodec.DeserializePageList(buf)
	require.NoError(t, err)
	require.Equal(t, n, consumed)
	require.Len(t, clusters, 1)
	require.Len(t, clusters[0].Columns, 2)

	// Column A (int32, physical id 0) sorts before column C (real64,
	// physical id 1): one page for A, two for C.
	require.Len(t, clusters[0].Columns[0].Pages, 1)
	require.Equal(t, uint32(100), clusters[0].Columns[0].Pages[0].NElements)
	require.Len(t, clusters[0].Columns[1].Pages, 2)
	require.Equal(t, "mem://overflow", clusters[0].Columns[1].Pages[1].Locator.URL)
}
