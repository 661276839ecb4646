package anim

import (
	"testing"

	"github.com/AndrewBunn00/Mega-Cube/internal/config"
	"github.com/AndrewBunn00/Mega-Cube/internal/cube"
)

// fakeEffect records lifecycle calls and paints one voxel per update.
type fakeEffect struct {
	name      string
	inits     int
	teardowns int
	updates   int
	lastCfg   config.Effect
}

func (f *fakeEffect) Name() string { return f.name }
func (f *fakeEffect) Init(cfg config.Effect) {
	f.inits++
	f.lastCfg = cfg
}
func (f *fakeEffect) Update(dt float64, d *cube.Display) {
	f.updates++
	d.Set(0, 0, 0, cube.White)
}
func (f *fakeEffect) Teardown() { f.teardowns++ }

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Effects = map[string]config.Effect{
		"a": {StartTime: 1.0, RunTime: 2.0, EndTime: 0.5},
		"b": {StartTime: 0.2, RunTime: 0.2, EndTime: 0.2},
	}
	return cfg
}

func newTestController() (*Controller, *fakeEffect, *fakeEffect) {
	a := &fakeEffect{name: "a"}
	b := &fakeEffect{name: "b"}
	c := NewController(cube.NewDisplay(), testConfig())
	c.Register(a)
	c.Register(b)
	return c, a, b
}

func TestLifecycleEnvelope(t *testing.T) {
	c, _, _ := newTestController()
	if err := c.Select(0); err != nil {
		t.Fatalf("select: %v", err)
	}
	if c.Brightness() != 0 || c.State() != Starting {
		t.Fatalf("at t=0: state %v brightness %d", c.State(), c.Brightness())
	}

	const dt = 0.1
	var last uint8
	// Fade-in: brightness rises monotonically through t=0.9.
	for i := 0; i < 9; i++ {
		c.Tick(dt)
		if b := c.Brightness(); b < last {
			t.Fatalf("brightness fell during fade-in: %d -> %d", last, b)
		} else {
			last = b
		}
	}
	if c.State() != Starting {
		t.Fatalf("expected Starting at t=0.9, got %v", c.State())
	}

	// Through t=1.1 the controller reaches full brightness.
	c.Tick(dt)
	c.Tick(dt)
	if c.State() != Running || c.Brightness() != 255 {
		t.Fatalf("at t=1.1: state %v brightness %d", c.State(), c.Brightness())
	}

	// Hold until runtime elapses (t=3.1 is safely inside Ending).
	for i := 0; i < 19; i++ {
		c.Tick(dt)
		if c.State() == Running && c.Brightness() != 255 {
			t.Fatalf("brightness dipped during Running: %d", c.Brightness())
		}
	}
	c.Tick(dt)
	if c.State() != Ending {
		t.Fatalf("expected Ending at t=3.1, got %v", c.State())
	}

	// Fade-out completes by t=3.6 and stays Inactive.
	for i := 0; i < 5; i++ {
		c.Tick(dt)
	}
	if c.State() != Inactive || c.Brightness() != 0 {
		t.Fatalf("at t=3.6: state %v brightness %d", c.State(), c.Brightness())
	}
	for i := 0; i < 10; i++ {
		c.Tick(dt)
	}
	if c.State() != Inactive {
		t.Fatal("controller reactivated without a selection")
	}
}

func TestSelectRejectsUnknownIndex(t *testing.T) {
	c, _, _ := newTestController()
	if err := c.Select(0); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := c.Select(7); err != ErrUnknownEffect {
		t.Fatalf("expected ErrUnknownEffect, got %v", err)
	}
	if c.Index() != 0 {
		t.Fatalf("selection changed on rejected index: %d", c.Index())
	}
	if err := c.Select(-1); err != ErrUnknownEffect {
		t.Fatalf("expected ErrUnknownEffect for negative index, got %v", err)
	}
}

func TestSelectTearsDownAndReinitializes(t *testing.T) {
	c, a, b := newTestController()
	_ = c.Select(0)
	if a.inits != 1 {
		t.Fatalf("a.inits = %d", a.inits)
	}
	c.Tick(0.1)

	// Switching mid-fade tears down a, initializes b, restarts at Starting.
	_ = c.Select(1)
	if a.teardowns != 1 || b.inits != 1 {
		t.Fatalf("teardown/init not called: a.teardowns=%d b.inits=%d", a.teardowns, b.inits)
	}
	if c.State() != Starting {
		t.Fatalf("expected Starting after reselect, got %v", c.State())
	}
	if b.lastCfg.StartTime != 0.2 {
		t.Fatalf("b initialized with wrong config: %+v", b.lastCfg)
	}
}

func TestResetRestartsActiveEffect(t *testing.T) {
	c, a, _ := newTestController()
	_ = c.Select(0)
	for i := 0; i < 15; i++ {
		c.Tick(0.1)
	}
	if c.State() != Running {
		t.Fatalf("expected Running before reset, got %v", c.State())
	}
	c.Reset()
	if c.State() != Starting || a.inits != 2 {
		t.Fatalf("reset: state %v inits %d", c.State(), a.inits)
	}
}

func TestTickAppliesEnvelopeToDrawing(t *testing.T) {
	d := cube.NewDisplay()
	c := NewController(d, testConfig())
	c.Register(&fakeEffect{name: "a"})
	_ = c.Select(0)

	c.Tick(0.5) // halfway through fade-in
	got := d.Get(0, 0, 0)
	if got.R == 0 || got.R == 255 {
		t.Fatalf("expected a partially faded voxel, got %+v", got)
	}
}

func TestPlaylistAdvancesWhenInactive(t *testing.T) {
	c, _, b := newTestController()
	p := NewPlaylist(c)

	p.Tick(0.1) // nothing selected yet: playlist picks index 0
	if c.Index() != 0 {
		t.Fatalf("playlist did not select the first effect: %d", c.Index())
	}
	// Run effect a to completion (3.5s) and give the playlist one more tick.
	for i := 0; i < 40; i++ {
		p.Tick(0.1)
	}
	if c.Index() != 1 || b.inits != 1 {
		t.Fatalf("playlist did not advance: index=%d b.inits=%d", c.Index(), b.inits)
	}
}
