// Package crc provides the CRC-32 checksum primitive that the tupcodec
// format treats as an opaque collaborator: seed with an empty run, then
// fold in bytes, possibly across several calls.
package crc

import "hash/crc32"

// CRC accumulates a CRC-32 (IEEE polynomial) checksum across one or more
// calls to Update, mirroring the chained crc.New(...).Update(...).Value()
// helper used elsewhere in this codebase's lineage.
type CRC uint32

// New starts a checksum seeded with the given bytes.
func New(b []byte) CRC {
	return CRC(crc32.ChecksumIEEE(b))
}

// Update folds additional bytes into the checksum.
func (c CRC) Update(b []byte) CRC {
	return CRC(crc32.Update(uint32(c), crc32.IEEETable, b))
}

// Value returns the accumulated checksum.
func (c CRC) Value() uint32 {
	return uint32(c)
}
