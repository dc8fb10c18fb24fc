package tupcodec

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/swiss"
)

// idMapping is a bidirectional map between in-memory and physical IDs for
// one kind of entity (field, column, or cluster). mem -> phys benefits from
// a hash map since lookups are keyed by arbitrary in-memory IDs; phys ->
// mem is a dense, append-only vector indexed directly by physical ID.
type idMapping struct {
	memToPhys swiss.Map[uint64, uint32]
	physToMem []uint64
}

func (m *idMapping) init() {
	m.memToPhys.Init(16)
}

// Map assigns the next sequential physical ID (the current size of the
// forward vector) to mem, records both directions, and returns the new
// physical ID.
func (m *idMapping) Map(mem uint64) uint32 {
	phys := uint32(len(m.physToMem))
	m.memToPhys.Put(mem, phys)
	m.physToMem = append(m.physToMem, mem)
	return phys
}

func (m *idMapping) phys(mem uint64) (uint32, error) {
	phys, ok := m.memToPhys.Get(mem)
	if !ok {
		return 0, errors.Mark(errors.AssertionFailedf("tupcodec: no physical id mapped for mem id %d", mem), ErrUnknownID)
	}
	return phys, nil
}

func (m *idMapping) memAt(phys uint32) (uint64, error) {
	if int(phys) >= len(m.physToMem) {
		return 0, errors.Mark(errors.AssertionFailedf("tupcodec: no mem id mapped for phys id %d", phys), ErrUnknownID)
	}
	return m.physToMem[phys], nil
}

// Context is the serialization context: bidirectional ID mappings for
// fields, columns, and clusters, plus the header's carried size/CRC and
// the registry of cluster groups. It is created by the header serializer
// and consumed by the page-list and footer serializers; physical IDs,
// once assigned, never change for the remainder of the document.
//
// A Context is single-writer: it must be populated by one write pass and
// then only read by later passes on the same logical thread of execution,
// or externally synchronized.
type Context struct {
	fields   idMapping
	columns  idMapping
	clusters idMapping

	headerSize  uint32
	headerCRC32 uint32

	clusterGroups []ClusterGroup
}

// NewContext returns an empty Context ready for header serialization.
func NewContext() *Context {
	c := &Context{}
	c.fields.init()
	c.columns.init()
	c.clusters.init()
	return c
}

// MapFieldID assigns and records the next physical field ID for mem.
func (c *Context) MapFieldID(mem uint64) uint32 { return c.fields.Map(mem) }

// MapColumnID assigns and records the next physical column ID for mem.
func (c *Context) MapColumnID(mem uint64) uint32 { return c.columns.Map(mem) }

// MapClusterID assigns and records the next physical cluster ID for mem.
func (c *Context) MapClusterID(mem uint64) uint32 { return c.clusters.Map(mem) }

// PhysFieldID returns the physical ID mapped for the in-memory field id
// mem. It fails with ErrUnknownID if mem was never mapped.
func (c *Context) PhysFieldID(mem uint64) (uint32, error) { return c.fields.phys(mem) }

// PhysColumnID returns the physical ID mapped for the in-memory column id
// mem. It fails with ErrUnknownID if mem was never mapped.
func (c *Context) PhysColumnID(mem uint64) (uint32, error) { return c.columns.phys(mem) }

// PhysClusterID returns the physical ID mapped for the in-memory cluster
// id mem. It fails with ErrUnknownID if mem was never mapped.
func (c *Context) PhysClusterID(mem uint64) (uint32, error) { return c.clusters.phys(mem) }

// MemFieldID returns the in-memory field id that was assigned physical id
// phys. It fails with ErrUnknownID if phys was never assigned.
func (c *Context) MemFieldID(phys uint32) (uint64, error) { return c.fields.memAt(phys) }

// MemColumnID returns the in-memory column id that was assigned physical
// id phys. It fails with ErrUnknownID if phys was never assigned.
func (c *Context) MemColumnID(phys uint32) (uint64, error) { return c.columns.memAt(phys) }

// MemClusterID returns the in-memory cluster id that was assigned physical
// id phys. It fails with ErrUnknownID if phys was never assigned.
func (c *Context) MemClusterID(phys uint32) (uint64, error) { return c.clusters.memAt(phys) }

// SetHeaderSize records the total serialized byte length of the header
// envelope, for the footer to reference indirectly.
func (c *Context) SetHeaderSize(size uint32) { c.headerSize = size }

// HeaderSize returns the size recorded by SetHeaderSize.
func (c *Context) HeaderSize() uint32 { return c.headerSize }

// SetHeaderCRC32 records the header envelope's trailing CRC-32, which the
// footer serializer writes forward as header_crc32.
func (c *Context) SetHeaderCRC32(crc32 uint32) { c.headerCRC32 = crc32 }

// HeaderCRC32 returns the CRC-32 recorded by SetHeaderCRC32.
func (c *Context) HeaderCRC32() uint32 { return c.headerCRC32 }

// AddClusterGroup appends a cluster group to the context's registry. The
// footer serializer emits the full registry, in registration order.
func (c *Context) AddClusterGroup(g ClusterGroup) {
	c.clusterGroups = append(c.clusterGroups, g)
}

// ClusterGroups returns the cluster groups registered so far, in
// registration order.
func (c *Context) ClusterGroups() []ClusterGroup { return c.clusterGroups }
