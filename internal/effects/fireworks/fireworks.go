// Package fireworks launches missiles that explode into gravity-driven
// debris clouds.
package fireworks

import (
	"math/rand"
	"time"

	"github.com/AndrewBunn00/Mega-Cube/internal/config"
	"github.com/AndrewBunn00/Mega-Cube/internal/cube"
	"github.com/AndrewBunn00/Mega-Cube/internal/geom"
)

type particle struct {
	pos geom.Vec3
	vel geom.Vec3
	col cube.Color
}

func (p *particle) move(dt float64, gravity float64) {
	p.vel.Y -= gravity * dt
	p.pos = p.pos.Add(p.vel.Mul(dt))
}

type Effect struct {
	rng     *rand.Rand
	missile particle
	debris  []particle
	flying  bool

	gravity     float64
	launchSpeed float64
	debrisCount int
	blastSpeed  float64
}

func New() *Effect {
	return &Effect{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (e *Effect) Name() string { return "fireworks" }

func (e *Effect) Init(cfg config.Effect) {
	e.gravity = cfg.Param("gravity", 10.0)
	e.launchSpeed = cfg.Param("launch_speed", 15.0)
	e.debrisCount = int(cfg.Param("debris", 60))
	e.blastSpeed = cfg.Param("blast_speed", 6.0)
	e.debris = e.debris[:0]
	e.flying = false
}

func (e *Effect) launch() {
	e.missile = particle{
		pos: geom.Vec3{
			X: 10*e.rng.Float64() - 5,
			Y: -8,
			Z: 10*e.rng.Float64() - 5,
		},
		vel: geom.Vec3{
			X: 3*e.rng.Float64() - 1.5,
			Y: e.launchSpeed * (0.8 + 0.4*e.rng.Float64()),
			Z: 3*e.rng.Float64() - 1.5,
		},
		col: cube.Color{R: 255, G: 140, B: 40},
	}
	e.flying = true
}

func (e *Effect) explode() {
	hue := uint8(e.rng.Intn(256))
	e.debris = e.debris[:0]
	for i := 0; i < e.debrisCount; i++ {
		dir := geom.Vec3{
			X: 2*e.rng.Float64() - 1,
			Y: 2*e.rng.Float64() - 1,
			Z: 2*e.rng.Float64() - 1,
		}.Normalize().Mul(e.blastSpeed * (0.5 + 0.5*e.rng.Float64()))
		e.debris = append(e.debris, particle{
			pos: e.missile.pos,
			vel: e.missile.vel.Mul(0.3).Add(dir),
			col: cube.Wheel(hue + uint8(e.rng.Intn(32))),
		})
	}
	e.flying = false
}

func (e *Effect) Update(dt float64, d *cube.Display) {
	if !e.flying && len(e.debris) == 0 {
		e.launch()
	}

	if e.flying {
		e.missile.move(dt, e.gravity)
		d.Radiate(e.missile.pos, e.missile.col, 1.0)
		// Explode at apex.
		if e.missile.vel.Y <= 0 {
			e.explode()
		}
	}

	alive := e.debris[:0]
	for i := range e.debris {
		p := e.debris[i]
		p.move(dt, e.gravity)
		if p.pos.Y < -9 {
			continue
		}
		d.AddVoxel(p.pos, p.col)
		alive = append(alive, p)
	}
	e.debris = alive
}
