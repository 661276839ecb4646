// Package app ties the pipeline together: one fixed-rate loop that drains
// control commands, advances the animation, composites, power-limits and
// hands the frame to the output driver.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AndrewBunn00/Mega-Cube/internal/anim"
	"github.com/AndrewBunn00/Mega-Cube/internal/config"
	"github.com/AndrewBunn00/Mega-Cube/internal/cube"
	"github.com/AndrewBunn00/Mega-Cube/internal/led"
	"github.com/AndrewBunn00/Mega-Cube/internal/power"
)

// Command is one control-plane request. Pointer fields are applied only when
// set, so a single message can carry any combination.
type Command struct {
	Select     *int
	Reset      bool
	Playlist   *bool
	Brightness *float64
	MotionBlur *int
}

// Status is a point-in-time snapshot of the pipeline, safe to read from any
// goroutine.
type Status struct {
	FrameID     uint64  `json:"frame_id"`
	FPS         int     `json:"fps"`
	Effect      string  `json:"effect"`
	Index       int     `json:"index"`
	State       string  `json:"state"`
	Playlist    bool    `json:"playlist"`
	Brightness  float64 `json:"brightness"`
	MotionBlur  int     `json:"motion_blur"`
	EstimatedMA int     `json:"estimated_ma"`
	PowerScale  float64 `json:"power_scale"`
	Dropped     uint64  `json:"dropped"`
}

// Conductor owns the display and the tick loop. All mutation of animation
// state happens on the loop goroutine; other goroutines interact through
// Enqueue and Status.
type Conductor struct {
	cfg      *config.Config
	display  *cube.Display
	ctrl     *anim.Controller
	playlist *anim.Playlist
	limiter  power.Limiter
	driver   led.Driver

	commands chan Command
	observer func(frameID uint64, rgb []byte)

	mu      sync.RWMutex
	status  Status
	dropped uint64
}

func NewConductor(cfg *config.Config, driver led.Driver, effects []anim.Effect) *Conductor {
	d := cube.NewDisplay()
	ctrl := anim.NewController(d, cfg)
	for _, e := range effects {
		ctrl.Register(e)
	}
	return &Conductor{
		cfg:      cfg,
		display:  d,
		ctrl:     ctrl,
		playlist: anim.NewPlaylist(ctrl),
		limiter: power.Limiter{
			BudgetMilliamps:    cfg.Power.MaxMilliamps,
			FullScaleMilliamps: cfg.Power.LedFullScaleMA,
		},
		driver:   driver,
		commands: make(chan Command, 16),
	}
}

// Names lists the registered effects; the registry is immutable once the
// conductor is built.
func (c *Conductor) Names() []string { return c.ctrl.Names() }

// SetObserver installs a per-frame tap (the preview broadcaster). The rgb
// slice passed to it is a private copy.
func (c *Conductor) SetObserver(fn func(frameID uint64, rgb []byte)) {
	c.observer = fn
}

// Enqueue hands a command to the loop without blocking. A full queue drops
// the command; control traffic must never stall the frame clock.
func (c *Conductor) Enqueue(cmd Command) bool {
	select {
	case c.commands <- cmd:
		return true
	default:
		log.Warn().Msg("command queue full, dropping control message")
		return false
	}
}

func (c *Conductor) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Run drives the pipeline until ctx is cancelled. One tick: apply queued
// commands, advance the animation, composite the frame pair, prescale by
// global brightness, enforce the power budget, write out.
func (c *Conductor) Run(ctx context.Context) {
	fps := c.cfg.Animation.FPS
	if fps <= 0 {
		fps = 30
	}
	period := time.Second / time.Duration(fps)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	dt := period.Seconds()
	var frameID uint64

	log.Info().Int("fps", fps).Int("effects", c.ctrl.Len()).Msg("conductor running")
	for {
		select {
		case <-ctx.Done():
			log.Info().Uint64("frames", frameID).Msg("conductor stopped")
			return
		case <-ticker.C:
		}

		c.drainCommands()
		c.playlist.Tick(dt)

		rgb := c.display.CompositeAndSwap(uint8(c.cfg.Animation.MotionBlur))
		power.Prescale(rgb, c.cfg.Power.Brightness)
		est := c.limiter.Estimate(rgb)
		scale := c.limiter.Apply(rgb)
		if scale < 1 {
			log.Debug().Int("estimated_ma", est).Float64("scale", scale).Msg("power limit applied")
		}

		frameID++
		if err := c.driver.Write(rgb); err != nil {
			c.mu.Lock()
			c.dropped++
			c.mu.Unlock()
		}

		c.publishStatus(frameID, fps, est, scale)
		if c.observer != nil {
			c.observer(frameID, append([]byte(nil), rgb...))
		}
	}
}

func (c *Conductor) drainCommands() {
	for {
		select {
		case cmd := <-c.commands:
			c.apply(cmd)
		default:
			return
		}
	}
}

func (c *Conductor) apply(cmd Command) {
	if cmd.Select != nil {
		if err := c.ctrl.Select(*cmd.Select); err != nil {
			log.Warn().Int("index", *cmd.Select).Err(err).Msg("selection rejected")
		} else {
			// Manual selection takes the playlist out of the way until it
			// is explicitly re-enabled.
			c.playlist.Enabled = false
		}
	}
	if cmd.Reset {
		c.ctrl.Reset()
	}
	if cmd.Playlist != nil {
		c.playlist.Enabled = *cmd.Playlist
	}
	if cmd.Brightness != nil {
		c.cfg.Power.Brightness = *cmd.Brightness
		c.cfg.Clamp()
	}
	if cmd.MotionBlur != nil {
		c.cfg.Animation.MotionBlur = *cmd.MotionBlur
		c.cfg.Clamp()
	}
}

func (c *Conductor) publishStatus(frameID uint64, fps, est int, scale float64) {
	name := ""
	if i := c.ctrl.Index(); i >= 0 {
		name = c.ctrl.Names()[i]
	}
	c.mu.Lock()
	c.status = Status{
		FrameID:     frameID,
		FPS:         fps,
		Effect:      name,
		Index:       c.ctrl.Index(),
		State:       c.ctrl.State().String(),
		Playlist:    c.playlist.Enabled,
		Brightness:  c.cfg.Power.Brightness,
		MotionBlur:  c.cfg.Animation.MotionBlur,
		EstimatedMA: est,
		PowerScale:  scale,
		Dropped:     c.dropped,
	}
	c.mu.Unlock()
}
