package renderer

import "github.com/df07/go-wave-optics/pkg/core"

// Viewport maps pixel coordinates onto a world-space rectangle. The world
// rect is expanded (never cropped) to match the pixel aspect ratio so scenes
// render undistorted at any image size.
type Viewport struct {
	WidthPx  int
	HeightPx int
	World    core.AABB
}

// NewViewport builds a viewport over the given world region
func NewViewport(widthPx, heightPx int, world core.AABB) Viewport {
	pixelAspect := float64(widthPx) / float64(heightPx)
	worldAspect := world.Width() / world.Height()

	center := world.Center()
	w, h := world.Width(), world.Height()
	if worldAspect < pixelAspect {
		w = h * pixelAspect
	} else {
		h = w / pixelAspect
	}

	half := core.NewVec2(w/2, h/2)
	return Viewport{
		WidthPx:  widthPx,
		HeightPx: heightPx,
		World:    core.NewAABB(center.Subtract(half), center.Add(half)),
	}
}

// WorldAt maps a (possibly sub-pixel) pixel coordinate to world space
func (v Viewport) WorldAt(px, py float64) core.Vec2 {
	return core.NewVec2(
		v.World.Min.X+px/float64(v.WidthPx)*v.World.Width(),
		v.World.Min.Y+py/float64(v.HeightPx)*v.World.Height(),
	)
}
