package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/AndrewBunn00/Mega-Cube/internal/anim"
	"github.com/AndrewBunn00/Mega-Cube/internal/config"
	"github.com/AndrewBunn00/Mega-Cube/internal/cube"
	"github.com/AndrewBunn00/Mega-Cube/internal/led"
)

type solidEffect struct{ name string }

func (s *solidEffect) Name() string { return s.name }

func (s *solidEffect) Init(cfg config.Effect) {}

func (s *solidEffect) Update(dt float64, d *cube.Display) {
	d.Set(0, 0, 0, cube.White)
}

func fastConfig() *config.Config {
	cfg := config.Default()
	cfg.Animation.FPS = 200
	cfg.Effects = map[string]config.Effect{
		"solid": {StartTime: 0.01, RunTime: 10, EndTime: 0.01},
	}
	return cfg
}

func runConductor(t *testing.T, c *Conductor, until func() bool) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()
	deadline := time.After(2 * time.Second)
	for !until() {
		select {
		case <-deadline:
			cancel()
			<-done
			t.Fatal("condition not reached within 2s")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}

func TestConductorDeliversFrames(t *testing.T) {
	sim := led.NewSim()
	c := NewConductor(fastConfig(), sim, []anim.Effect{&solidEffect{name: "solid"}})
	runConductor(t, c, func() bool { return sim.Frames() >= 5 })

	st := c.Status()
	if st.FrameID < 5 {
		t.Fatalf("status frame id %d, expected >= 5", st.FrameID)
	}
	if st.Effect != "solid" {
		t.Fatalf("playlist did not start the effect: %+v", st)
	}
}

func TestConductorObserverGetsCopies(t *testing.T) {
	sim := led.NewSim()
	c := NewConductor(fastConfig(), sim, []anim.Effect{&solidEffect{name: "solid"}})

	var mu sync.Mutex
	var frames [][]byte
	c.SetObserver(func(id uint64, rgb []byte) {
		mu.Lock()
		frames = append(frames, rgb)
		mu.Unlock()
	})
	runConductor(t, c, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(frames) >= 2
	})

	mu.Lock()
	defer mu.Unlock()
	for _, f := range frames {
		if len(f) != cube.Voxels*3 {
			t.Fatalf("observer frame length %d", len(f))
		}
	}
	if &frames[0][0] == &frames[1][0] {
		t.Fatal("observer received aliased buffers")
	}
}

func TestConductorAppliesCommands(t *testing.T) {
	sim := led.NewSim()
	c := NewConductor(fastConfig(), sim, []anim.Effect{
		&solidEffect{name: "solid"},
		&solidEffect{name: "other"},
	})

	idx := 1
	b := 0.5
	if !c.Enqueue(Command{Select: &idx, Brightness: &b}) {
		t.Fatal("enqueue refused")
	}
	runConductor(t, c, func() bool {
		st := c.Status()
		return st.Index == 1 && st.Brightness == 0.5
	})

	st := c.Status()
	if st.Playlist {
		t.Fatal("manual selection should disable the playlist")
	}
}

func TestConductorRejectsBadSelection(t *testing.T) {
	sim := led.NewSim()
	c := NewConductor(fastConfig(), sim, []anim.Effect{&solidEffect{name: "solid"}})

	bad := 42
	c.Enqueue(Command{Select: &bad})
	runConductor(t, c, func() bool { return sim.Frames() >= 3 })

	// The bad selection is dropped; the playlist proceeds normally.
	if st := c.Status(); st.Index != 0 {
		t.Fatalf("bad selection changed the index: %+v", st)
	}
}
