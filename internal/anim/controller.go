package anim

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/AndrewBunn00/Mega-Cube/internal/config"
	"github.com/AndrewBunn00/Mega-Cube/internal/cube"
)

// ErrUnknownEffect rejects a selection index outside the registry; the
// current selection is left unchanged.
var ErrUnknownEffect = errors.New("anim: unknown effect index")

// Controller drives the active effect through its fade envelope. Forward
// transitions fire when the state's configured timer elapses; the next
// state's timer is armed on transition. The brightness multiplier ramps
// 0..255 during Starting, holds 255 during Running and ramps back down
// during Ending; after Ending the controller stays Inactive until an effect
// is selected again.
type Controller struct {
	display *cube.Display
	cfg     *config.Config

	effects []Effect
	idx     int

	state   State
	elapsed float64
	timing  config.Effect
}

func NewController(d *cube.Display, cfg *config.Config) *Controller {
	return &Controller{
		display: d,
		cfg:     cfg,
		idx:     -1,
		state:   Inactive,
	}
}

// Register appends an effect to the ordered registry.
func (c *Controller) Register(e Effect) {
	if e == nil {
		return
	}
	c.effects = append(c.effects, e)
}

// Names lists the registered effects in selection order.
func (c *Controller) Names() []string {
	out := make([]string, len(c.effects))
	for i, e := range c.effects {
		out[i] = e.Name()
	}
	return out
}

func (c *Controller) Len() int     { return len(c.effects) }
func (c *Controller) Index() int   { return c.idx }
func (c *Controller) State() State { return c.state }

// Select makes the effect at index i active: the outgoing module's optional
// teardown runs, the incoming module is initialized from configuration and
// the lifecycle restarts at Starting regardless of the outgoing state.
// Selecting the already-active effect is an idempotent restart.
func (c *Controller) Select(i int) error {
	if i < 0 || i >= len(c.effects) {
		return ErrUnknownEffect
	}
	if c.idx >= 0 {
		if f, ok := c.effects[c.idx].(Finalizer); ok {
			f.Teardown()
		}
	}
	c.idx = i
	c.restart()
	log.Info().Str("effect", c.effects[i].Name()).Int("index", i).Msg("effect selected")
	return nil
}

// Reset forces an immediate restart of the active effect.
func (c *Controller) Reset() {
	if c.idx < 0 {
		return
	}
	c.restart()
	log.Info().Str("effect", c.effects[c.idx].Name()).Msg("effect reset")
}

func (c *Controller) restart() {
	e := c.effects[c.idx]
	c.timing = c.cfg.Effect(e.Name())
	e.Init(c.timing)
	c.state = Starting
	c.elapsed = 0
}

// Tick advances the state machine by dt seconds, runs the active effect's
// update and applies the brightness envelope to whatever it drew, ready for
// compositing. Inactive ticks draw nothing.
func (c *Controller) Tick(dt float64) {
	if c.idx < 0 || c.state == Inactive {
		return
	}
	c.advance(dt)
	if c.state == Inactive {
		return
	}
	c.effects[c.idx].Update(dt, c.display)
	c.display.ScaleCurrent(c.Brightness())
}

// advance moves through as many timer expirations as dt covers.
func (c *Controller) advance(dt float64) {
	c.elapsed += dt
	for c.state != Inactive {
		d := c.stateDuration()
		if c.elapsed < d {
			return
		}
		c.elapsed -= d
		switch c.state {
		case Starting:
			c.state = Running
		case Running:
			c.state = Ending
		case Ending:
			c.state = Inactive
			c.elapsed = 0
			log.Debug().Str("effect", c.effects[c.idx].Name()).Msg("effect finished")
		}
	}
}

func (c *Controller) stateDuration() float64 {
	switch c.state {
	case Starting:
		return c.timing.StartTime
	case Running:
		return c.timing.RunTime
	case Ending:
		return c.timing.EndTime
	default:
		return 0
	}
}

// Brightness is the lifecycle envelope multiplier for the current tick.
func (c *Controller) Brightness() uint8 {
	switch c.state {
	case Starting:
		if c.timing.StartTime <= 0 {
			return 255
		}
		return uint8(255 * c.elapsed / c.timing.StartTime)
	case Running:
		return 255
	case Ending:
		if c.timing.EndTime <= 0 {
			return 0
		}
		return uint8(255 * (1 - c.elapsed/c.timing.EndTime))
	default:
		return 0
	}
}
