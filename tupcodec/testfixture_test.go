package tupcodec_test

import (
	"github.com/tuplestore/tupcodec/internal/memdescriptor"
	"github.com/tuplestore/tupcodec/tupcodec"
)

// buildFixtureDescriptor returns a small descriptor exercising every shape
// the header/page-list/footer serializers care about: a leaf field with a
// sorted column, a collection field wrapping a second leaf, and one
// cluster with page ranges for both columns.
func buildFixtureDescriptor() (desc *memdescriptor.Descriptor, columnAID, columnCID, clusterID uint64) {
	desc = memdescriptor.New("events", "a small event log")
	root := desc.FieldZeroID()

	fieldA := desc.AddField(root, 0, 0, tupcodec.FieldStructureLeaf, 0, "id", "int32", "primary key")
	fieldB := desc.AddField(root, 0, 0, tupcodec.FieldStructureCollection, 0, "tags", "vector<double>", "")
	fieldC := desc.AddField(fieldB, 0, 0, tupcodec.FieldStructureLeaf, 0, "_0", "double", "")

	columnAID = desc.AddColumn(fieldA, tupcodec.ColumnTypeInt32, true)
	columnCID = desc.AddColumn(fieldC, tupcodec.ColumnTypeReal64, false)

	clusterID = desc.AddCluster(0, 100)
	desc.AddPages(clusterID, columnAID, []tupcodec.PageInfo{
		{NElements: 100, Locator: tupcodec.Locator{BytesOnStorage: 400, Position: 0}},
	})
	desc.AddPages(clusterID, columnCID, []tupcodec.PageInfo{
		{NElements: 50, Locator: tupcodec.Locator{BytesOnStorage: 400, Position: 400}},
		{NElements: 50, Locator: tupcodec.Locator{URL: "mem://overflow"}},
	})
	return desc, columnAID, columnCID, clusterID
}
