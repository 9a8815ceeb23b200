package tetra

import (
	"math/rand/v2"
)

// ShapeKind identifies a catalog shape.
type ShapeKind uint8

const (
	ShapeI ShapeKind = iota
	ShapeO
	ShapeT
	ShapeS
	ShapeZ
	ShapeJ
	ShapeL
)

var shapeNames = [...]string{"I", "O", "T", "S", "Z", "J", "L"}

func (k ShapeKind) String() string {
	if int(k) < len(shapeNames) {
		return shapeNames[k]
	}
	return "?"
}

// Shape is an immutable catalog entry: four unit-cube offsets and a color tag.
// Offsets hang downward from the anchor, so the topmost block of every entry
// sits at dy == 0.
type Shape struct {
	Kind   ShapeKind
	Blocks [4]Vec3
	Color  uint32
}

// Catalog holds the seven canonical shapes indexed by ShapeKind.
var Catalog = [...]Shape{
	{Kind: ShapeI, Color: 0x00ffff, Blocks: [4]Vec3{{0, 0, 0}, {0, -1, 0}, {0, -2, 0}, {0, -3, 0}}},
	{Kind: ShapeO, Color: 0xffff00, Blocks: [4]Vec3{{0, 0, 0}, {1, 0, 0}, {0, -1, 0}, {1, -1, 0}}},
	{Kind: ShapeT, Color: 0x800080, Blocks: [4]Vec3{{0, -1, 0}, {1, 0, 0}, {1, -1, 0}, {1, -2, 0}}},
	{Kind: ShapeS, Color: 0x00ff00, Blocks: [4]Vec3{{0, -1, 0}, {0, -2, 0}, {1, 0, 0}, {1, -1, 0}}},
	{Kind: ShapeZ, Color: 0xff0000, Blocks: [4]Vec3{{0, 0, 0}, {0, -1, 0}, {1, -1, 0}, {1, -2, 0}}},
	{Kind: ShapeJ, Color: 0x0000ff, Blocks: [4]Vec3{{0, 0, 0}, {1, 0, 0}, {1, -1, 0}, {1, -2, 0}}},
	{Kind: ShapeL, Color: 0xffa500, Blocks: [4]Vec3{{0, -2, 0}, {1, 0, 0}, {1, -1, 0}, {1, -2, 0}}},
}

// ShapeSource produces the catalog index of the next piece to spawn.
// Next must return a value in [0, n).
type ShapeSource interface {
	Next(n int) int
}

// RandomSource draws shapes uniformly from a seeded PCG generator.
type RandomSource struct {
	rng *rand.Rand
}

// NewRandomSource returns a RandomSource seeded with seed.
func NewRandomSource(seed uint64) *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *RandomSource) Next(n int) int {
	return r.rng.IntN(n)
}

// QueueSource replays a fixed sequence of shapes. It panics when exhausted.
type QueueSource struct {
	queue []ShapeKind
}

// NewQueueSource returns a QueueSource that yields kinds in order.
func NewQueueSource(kinds ...ShapeKind) *QueueSource {
	return &QueueSource{queue: kinds}
}

// Push appends kinds to the end of the queue.
func (q *QueueSource) Push(kinds ...ShapeKind) {
	q.queue = append(q.queue, kinds...)
}

// Len returns the number of queued shapes.
func (q *QueueSource) Len() int {
	return len(q.queue)
}

func (q *QueueSource) Next(n int) int {
	if len(q.queue) == 0 {
		panic("tetra: QueueSource exhausted")
	}
	k := q.queue[0]
	q.queue = q.queue[1:]
	return int(k) % n
}
