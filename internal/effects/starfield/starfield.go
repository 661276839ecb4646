// Package starfield streams a cloud of stars through the volume, pulsing
// forward and backward while the whole field slowly revolves.
package starfield

import (
	"math"
	"math/rand"
	"time"

	"github.com/AndrewBunn00/Mega-Cube/internal/config"
	"github.com/AndrewBunn00/Mega-Cube/internal/cube"
	"github.com/AndrewBunn00/Mega-Cube/internal/geom"
)

type Effect struct {
	rng   *rand.Rand
	stars []geom.Vec3

	phase float64
	hue16 uint16

	phaseSpeed float64
	hueSpeed   float64
	diagonal   float64
}

func New() *Effect {
	return &Effect{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (e *Effect) Name() string { return "starfield" }

func (e *Effect) Init(cfg config.Effect) {
	e.phase = 0
	e.hue16 = 0
	e.phaseSpeed = cfg.Param("phase_speed", 1.0)
	e.hueSpeed = cfg.Param("hue_speed", 50.0)
	e.diagonal = cfg.Param("body_diagonal", 13.0)

	count := int(cfg.Param("stars", 200))
	e.stars = make([]geom.Vec3, count)
	for i := range e.stars {
		e.stars[i] = e.randomStar(2*e.rng.Float64() - 1)
	}
}

func (e *Effect) randomStar(z float64) geom.Vec3 {
	return geom.Vec3{
		X: 2*e.rng.Float64() - 1,
		Y: 2*e.rng.Float64() - 1,
		Z: z,
	}
}

func (e *Effect) Update(dt float64, d *cube.Display) {
	e.phase += dt * e.phaseSpeed
	e.hue16 += uint16(dt * e.hueSpeed * 255)

	q := geom.NewQuaternion(25*e.phase, geom.Vec3{Y: 1})

	for i := range e.stars {
		r := e.stars[i].Mul(3).Sub(geom.Vec3{Z: -2}).Magnitude()
		e.stars[i].Z += math.Sin(e.phase) * 1.75 * dt * r

		if e.stars[i].Z > 1 {
			e.stars[i] = e.randomStar(-1)
		} else if e.stars[i].Z < -1 {
			e.stars[i] = e.randomStar(1)
		}

		c := cube.Wheel(uint8(e.hue16>>8) + uint8(int8(r*6)))
		d.SetVoxel(q.Rotate(e.stars[i]).Mul(e.diagonal), c)
	}
}
