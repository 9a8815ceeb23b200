package tetra

import (
	"github.com/kamstrup/intmap"
)

// OccupantId encodes both the placed-piece serial (upper 32 bits) and the
// block index within that piece (lower 32 bits). The zero id marks an empty cell.
type OccupantId uint64

// NewOccupantId creates an OccupantId from a piece serial and block index.
func NewOccupantId(serial uint32, block uint32) OccupantId {
	return OccupantId(uint64(serial)<<32 | uint64(block))
}

// Serial extracts the placed-piece serial.
func (o OccupantId) Serial() uint32 {
	return uint32(o >> 32)
}

// Block extracts the block index.
func (o OccupantId) Block() uint32 {
	return uint32(o & 0xFFFFFFFF)
}

// Occupant is the presentation-facing record behind an OccupantId.
type Occupant struct {
	Shape ShapeKind
	Color uint32
}

// Occupants is the arena of occupant records for every placed block still on the grid.
type Occupants struct {
	records    *intmap.Map[OccupantId, Occupant]
	nextSerial uint32
}

// NewOccupants creates an empty arena.
func NewOccupants() *Occupants {
	return &Occupants{
		records:    intmap.New[OccupantId, Occupant](256),
		nextSerial: 1,
	}
}

// Register allocates a fresh serial and stores one record per block.
// The returned ids are in block order.
func (o *Occupants) Register(shape ShapeKind, color uint32, blocks int) []OccupantId {
	serial := o.nextSerial
	o.nextSerial++

	ids := make([]OccupantId, blocks)
	for i := range ids {
		id := NewOccupantId(serial, uint32(i))
		o.records.Put(id, Occupant{Shape: shape, Color: color})
		ids[i] = id
	}
	return ids
}

// Get returns the record for id.
func (o *Occupants) Get(id OccupantId) (Occupant, bool) {
	return o.records.Get(id)
}

// Release drops the record for id. Releasing an unknown id is a no-op.
func (o *Occupants) Release(id OccupantId) {
	o.records.Del(id)
}

// Len returns the number of live records.
func (o *Occupants) Len() int {
	return o.records.Len()
}

// Reset drops every record and restarts serial allocation.
func (o *Occupants) Reset() {
	o.records.Clear()
	o.nextSerial = 1
}
