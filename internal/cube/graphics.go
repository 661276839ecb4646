package cube

import (
	"math"

	"github.com/AndrewBunn00/Mega-Cube/internal/geom"
)

// Drawing primitives on centered coordinates [-7.5,7.5] per axis. Points that
// round outside the grid are dropped silently; effects routinely push
// geometry past the edges while rotating or projecting.

// grid converts one centered axis value to array form, rounding half up.
func grid(f float64) int {
	return int(math.Floor(f + center + 0.5))
}

// SetVoxel writes the voxel nearest to v.
func (d *Display) SetVoxel(v geom.Vec3, c Color) {
	d.Set(grid(v.X), grid(v.Y), grid(v.Z), c)
}

// AddVoxel saturating-adds into the voxel nearest to v.
func (d *Display) AddVoxel(v geom.Vec3, c Color) {
	d.Add(grid(v.X), grid(v.Y), grid(v.Z), c)
}

// Radiate draws a sphere of light of radius r around v with linear falloff.
// Voxels combine by per-channel maximum.
func (d *Display) Radiate(v geom.Vec3, c Color, r float64) {
	d.radiate(v, c, r, func(dist float64) uint8 {
		return uint8(255 * (1 - dist/r))
	})
}

// Radiate5 draws a sphere of light with a steep 1/(1+d^5) falloff, giving a
// bright core and a tight halo.
func (d *Display) Radiate5(v geom.Vec3, c Color, r float64) {
	d.radiate(v, c, r, func(dist float64) uint8 {
		return uint8(255 / (1 + dist*dist*dist*dist*dist))
	})
}

func (d *Display) radiate(v geom.Vec3, c Color, r float64, falloff func(float64) uint8) {
	if r <= 0 {
		return
	}
	p := v.Add(geom.Vec3{X: center, Y: center, Z: center})
	x1, x2 := int(p.X-r+1), int(p.X+r)
	y1, y2 := int(p.Y-r+1), int(p.Y+r)
	z1, z2 := int(p.Z-r+1), int(p.Z+r)
	for x := x1; x <= x2; x++ {
		for y := y1; y <= y2; y++ {
			for z := z1; z <= z2; z++ {
				if !inRange(x, y, z) {
					continue
				}
				dist := (geom.Vec3{X: float64(x), Y: float64(y), Z: float64(z)}).Sub(p).Magnitude()
				if dist < r {
					d.Max(x, y, z, c.Scaled(falloff(dist)))
				}
			}
		}
	}
}

// Line steps from p0 to p1 in unit increments along the dominant axis,
// setting the nearest voxel at each step.
func (d *Display) Line(p0, p1 geom.Vec3, c Color) {
	n := p0.Sub(p1)
	steps := 1 + math.Max(math.Abs(n.Z), math.Max(math.Abs(n.X), math.Abs(n.Y)))
	inc := n.Div(steps)
	for i := 0; i <= int(steps); i++ {
		d.SetVoxel(p0.Sub(inc.Mul(float64(i))), c)
	}
}
