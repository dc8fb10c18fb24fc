package tupcodec_test

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/cockroachdb/metamorphic"
	"github.com/stretchr/testify/require"

	"github.com/tuplestore/tupcodec/internal/memdescriptor"
	"github.com/tuplestore/tupcodec/tupcodec"
)

// TestHeaderFooterMetamorphic builds randomly shaped descriptors — varying
// field structure, column type, sortedness, and locator kind — and checks
// that header/page-list/footer round trips hold regardless of shape. The
// weighting mirrors how heavily each shape should appear in practice: leaf
// fields and inline locators dominate, with collections, variants, and URL
// locators appearing occasionally.
func TestHeaderFooterMetamorphic(t *testing.T) {
	root := time.Now().UnixNano()
	for i := int64(0); i < 20; i++ {
		seed := root + i
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			runHeaderFooterMetamorphicIteration(t, seed)
		})
	}
}

func runHeaderFooterMetamorphicIteration(t *testing.T, seed int64) {
	t.Logf("seed %d", seed)
	rng := rand.New(rand.NewSource(seed))

	structures := metamorphic.Weighted[tupcodec.FieldStructure]{
		{Item: tupcodec.FieldStructureLeaf, Weight: 10},
		{Item: tupcodec.FieldStructureCollection, Weight: 3},
		{Item: tupcodec.FieldStructureRecord, Weight: 2},
		{Item: tupcodec.FieldStructureVariant, Weight: 1},
		{Item: tupcodec.FieldStructureReference, Weight: 1},
	}.RandomDeck(rng)

	columnTypes := metamorphic.Weighted[tupcodec.ColumnType]{
		{Item: tupcodec.ColumnTypeInt32, Weight: 5},
		{Item: tupcodec.ColumnTypeInt64, Weight: 5},
		{Item: tupcodec.ColumnTypeReal64, Weight: 5},
		{Item: tupcodec.ColumnTypeReal32, Weight: 3},
		{Item: tupcodec.ColumnTypeByte, Weight: 3},
		{Item: tupcodec.ColumnTypeBit, Weight: 1},
		{Item: tupcodec.ColumnTypeIndex, Weight: 2},
	}.RandomDeck(rng)

	isURLLocator := metamorphic.Weighted[bool]{
		{Item: false, Weight: 9},
		{Item: true, Weight: 1},
	}.RandomDeck(rng)

	desc := memdescriptor.New("fuzz", "metamorphic fixture")
	root := desc.FieldZeroID()

	nFields := 1 + rng.Intn(6)
	columnIDs := make([]uint64, 0, nFields)
	for i := 0; i < nFields; i++ {
		structure := structures()
		name := fmt.Sprintf("f%d", i)
		fieldID := desc.AddField(root, 0, 0, structure, 0, name, "t", "")

		ct := columnTypes()
		sorted := rng.Intn(2) == 0
		colID := desc.AddColumn(fieldID, ct, sorted)
		columnIDs = append(columnIDs, colID)
	}

	clusterID := desc.AddCluster(0, uint64(100+rng.Intn(900)))
	for _, colID := range columnIDs {
		nPages := 1 + rng.Intn(3)
		pages := make([]tupcodec.PageInfo, nPages)
		for p := 0; p < nPages; p++ {
			if isURLLocator() {
				pages[p] = tupcodec.PageInfo{
					NElements: uint32(1 + rng.Intn(1000)),
					Locator:   tupcodec.Locator{URL: fmt.Sprintf("mem://page-%d", p)},
				}
			} else {
				pages[p] = tupcodec.PageInfo{
					NElements: uint32(1 + rng.Intn(1000)),
					Locator:   tupcodec.Locator{BytesOnStorage: uint32(rng.Intn(1 << 20)), Position: uint64(rng.Intn(1 << 30))},
				}
			}
		}
		desc.AddPages(clusterID, colID, pages)
	}

	headerSize, _, err := tupcodec.SerializeHeader(desc, nil)
	require.NoError(t, err)
	headerBuf := make([]byte, headerSize)
	_, ctx, err := tupcodec.SerializeHeader(desc, headerBuf)
	require.NoError(t, err)

	headerGot, consumed, err := tupcodec.DeserializeHeader(headerBuf)
	require.NoError(t, err)
	require.Equal(t, headerSize, consumed)
	require.Len(t, headerGot.Fields, nFields)
	require.Len(t, headerGot.Columns, nFields)

	physCluster := ctx.MapClusterID(clusterID)
	plSize, err := tupcodec.SerializePageList(desc, ctx, []uint32{physCluster}, nil)
	require.NoError(t, err)
	plBuf := make([]byte, plSize)
	_, err = tupcodec.SerializePageList(desc, ctx, []uint32{physCluster}, plBuf)
	require.NoError(t, err)

	clusters, plConsumed, err := tupcodec.DeserializePageList(plBuf)
	require.NoError(t, err)
	require.Equal(t, plSize, plConsumed)
	require.Len(t, clusters, 1)
	require.Len(t, clusters[0].Columns, nFields)

	clusterEnvSize, err := tupcodec.SerializeClusterEnvelope(desc, ctx, clusterID, nil)
	require.NoError(t, err)
	clusterEnvBuf := make([]byte, clusterEnvSize)
	_, err = tupcodec.SerializeClusterEnvelope(desc, ctx, clusterID, clusterEnvBuf)
	require.NoError(t, err)

	clusterCols, clusterConsumed, err := tupcodec.DeserializeClusterEnvelope(clusterEnvBuf)
	require.NoError(t, err)
	require.Equal(t, clusterEnvSize, clusterConsumed)
	require.Len(t, clusterCols, nFields)

	footerSize, err := tupcodec.SerializeFooter(ctx, nil, nil)
	require.NoError(t, err)
	footerBuf := make([]byte, footerSize)
	_, err = tupcodec.SerializeFooter(ctx, nil, footerBuf)
	require.NoError(t, err)

	footerGot, footerConsumed, err := tupcodec.DeserializeFooter(footerBuf)
	require.NoError(t, err)
	require.Equal(t, footerSize, footerConsumed)
	require.Equal(t, ctx.HeaderCRC32(), footerGot.HeaderCRC32)
}
