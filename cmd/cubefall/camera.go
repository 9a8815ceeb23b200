package main

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cubefall/tetra"
)

// camera projects grid cells onto the window with a fixed perspective view
// looking down into the well from above the back edge.
type camera struct {
	view, projection mgl32.Mat4
	right            mgl32.Vec3
	width, height    int
}

// projected is a cell's screen-space center, depth in [0, 1] and edge length in pixels.
type projected struct {
	X, Y, Depth, Size float32
}

func newCamera(w, h, d, screenW, screenH int) camera {
	center := mgl32.Vec3{float32(w) / 2, float32(h) / 2, float32(d) / 2}
	eye := mgl32.Vec3{float32(w) / 2, float32(h) * 1.25, float32(d)/2 + float32(max(w, d))*1.6}
	up := mgl32.Vec3{0, 1, 0}

	forward := center.Sub(eye).Normalize()
	aspect := float32(screenW) / float32(screenH)

	return camera{
		view:       mgl32.LookAtV(eye, center, up),
		projection: mgl32.Perspective(mgl32.DegToRad(55), aspect, 0.1, 200),
		right:      forward.Cross(up).Normalize(),
		width:      screenW,
		height:     screenH,
	}
}

// project maps the center of cell v to the screen. Window y grows downward.
func (c camera) project(v tetra.Vec3) projected {
	center := mgl32.Vec3{float32(v.X) + 0.5, float32(v.Y) + 0.5, float32(v.Z) + 0.5}
	p := mgl32.Project(center, c.view, c.projection, 0, 0, c.width, c.height)
	q := mgl32.Project(center.Add(c.right), c.view, c.projection, 0, 0, c.width, c.height)

	size := float32(math.Hypot(float64(q.X()-p.X()), float64(q.Y()-p.Y())))
	return projected{
		X:     p.X(),
		Y:     float32(c.height) - p.Y(),
		Depth: p.Z(),
		Size:  size,
	}
}

// rgba converts a 0xRRGGBB tag to an opaque color, darkened by shade in [0, 1].
func rgba(tag uint32, shade float32) color.RGBA {
	f := 1 - 0.5*min(max(shade, 0), 1)
	return color.RGBA{
		R: uint8(float32(tag>>16&0xff) * f),
		G: uint8(float32(tag>>8&0xff) * f),
		B: uint8(float32(tag&0xff) * f),
		A: 0xff,
	}
}
