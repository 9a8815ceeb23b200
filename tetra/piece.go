package tetra

// Validator reports whether a candidate set of absolute cells is legal.
type Validator func(cells []Vec3) bool

// Piece is a falling block group: four offsets around an anchor position.
type Piece struct {
	kind     ShapeKind
	color    uint32
	shape    [4]Vec3
	position Vec3
}

// NewPiece creates a piece with a copy of the catalog shape for kind at position.
func NewPiece(kind ShapeKind, position Vec3) *Piece {
	entry := Catalog[kind]
	return &Piece{
		kind:     kind,
		color:    entry.Color,
		shape:    entry.Blocks,
		position: position,
	}
}

func (p *Piece) Kind() ShapeKind { return p.kind }
func (p *Piece) Color() uint32 { return p.color }
func (p *Piece) Shape() [4]Vec3 { return p.shape }
func (p *Piece) Position() Vec3 { return p.position }

// Cells returns the absolute cells the piece currently covers.
func (p *Piece) Cells() []Vec3 {
	return p.CellsAt(p.position, p.shape)
}

// CellsAt returns the absolute cells for an arbitrary position and shape
// without touching the piece.
func (p *Piece) CellsAt(position Vec3, shape [4]Vec3) []Vec3 {
	cells := make([]Vec3, len(shape))
	for i, off := range shape {
		cells[i] = position.Add(off)
	}
	return cells
}

// Translate moves the piece by d if valid accepts the result.
// On rejection the piece is left unchanged.
func (p *Piece) Translate(d Vec3, valid Validator) bool {
	candidate := p.position.Add(d)
	if !valid(p.CellsAt(candidate, p.shape)) {
		return false
	}
	p.position = candidate
	return true
}

// Rotate turns every offset a quarter turn about axis, keeping the anchor
// fixed. There is no kick search: the rotation either fits in place or the
// piece is left unchanged.
func (p *Piece) Rotate(axis Axis, valid Validator) bool {
	var candidate [4]Vec3
	for i, off := range p.shape {
		candidate[i] = off.Rotate(axis)
	}
	if !valid(p.CellsAt(p.position, candidate)) {
		return false
	}
	p.shape = candidate
	return true
}

// DropTarget returns the lowest anchor y the piece can reach by falling
// straight down from its current position.
func (p *Piece) DropTarget(valid Validator) int {
	pos := p.position
	for {
		next := pos.Add(Vec3{Y: -1})
		if !valid(p.CellsAt(next, p.shape)) {
			return pos.Y
		}
		pos = next
	}
}

// Clone returns an independent copy of the piece.
func (p *Piece) Clone() *Piece {
	c := *p
	return &c
}
