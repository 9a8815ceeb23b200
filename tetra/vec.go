package tetra

// Vec3 is an integer grid coordinate or offset.
type Vec3 struct {
	X, Y, Z int
}

// Add returns the component-wise sum of v and o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Axis names one of the three rotation axes.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "unknown"
	}
}

// Rotate applies a quarter turn about axis to v.
//
//	X: (x,y,z) -> (x,-z,y)
//	Y: (x,y,z) -> (-z,y,x)
//	Z: (x,y,z) -> (-y,x,z)
func (v Vec3) Rotate(axis Axis) Vec3 {
	switch axis {
	case AxisX:
		return Vec3{X: v.X, Y: -v.Z, Z: v.Y}
	case AxisY:
		return Vec3{X: -v.Z, Y: v.Y, Z: v.X}
	case AxisZ:
		return Vec3{X: -v.Y, Y: v.X, Z: v.Z}
	default:
		return v
	}
}

// Direction is a horizontal movement intent.
type Direction uint8

const (
	Left Direction = iota
	Right
	Forward
	Back
)

// Delta returns the grid offset for a single step in direction d.
func (d Direction) Delta() Vec3 {
	switch d {
	case Left:
		return Vec3{X: -1}
	case Right:
		return Vec3{X: 1}
	case Forward:
		return Vec3{Z: -1}
	case Back:
		return Vec3{Z: 1}
	default:
		return Vec3{}
	}
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Forward:
		return "forward"
	case Back:
		return "back"
	default:
		return "unknown"
	}
}
