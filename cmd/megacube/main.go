package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/AndrewBunn00/Mega-Cube/internal/app"
	"github.com/AndrewBunn00/Mega-Cube/internal/config"
	"github.com/AndrewBunn00/Mega-Cube/internal/cube"
	"github.com/AndrewBunn00/Mega-Cube/internal/effects"
	"github.com/AndrewBunn00/Mega-Cube/internal/led"
	"github.com/AndrewBunn00/Mega-Cube/internal/serial"
	"github.com/AndrewBunn00/Mega-Cube/internal/ws"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		driver     = flag.String("driver", "", "override driver: spi | nrz | console | sim")
		brightness = flag.Float64("brightness", -1, "override global brightness 0..1")
		debug      = flag.Bool("debug", false, "verbose logging")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; using defaults")
		cfg = config.Default()
	}
	if *driver != "" {
		cfg.Driver = *driver
	}
	if *brightness >= 0 {
		cfg.Power.Brightness = *brightness
		cfg.Clamp()
	}

	drv, engine := openDriver(cfg)
	defer drv.Close()

	cond := app.NewConductor(cfg, drv, effects.All())
	hub := ws.NewHub(cond)
	if engine != nil {
		engine.Timeout = time.Second / time.Duration(cfg.Animation.FPS)
		engine.Escalate = hub.PushDiag
	}

	mux := http.NewServeMux()
	hub.Routes(mux)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      withCORS(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go cond.Run(ctx)
	go func() {
		log.Info().Str("addr", *addr).Str("driver", cfg.Driver).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")

	cancel()
	_ = srv.Close()
}

// openDriver builds the configured output sink, falling back to the
// simulator when hardware is unavailable. The second return value is non-nil
// only for the in-process serialization engine, which needs its timeout and
// escalation hook wired after the hub exists.
func openDriver(cfg *config.Config) (led.Driver, *serial.Engine) {
	switch cfg.Driver {
	case "spi":
		if _, err := host.Init(); err != nil {
			log.Warn().Err(err).Msg("periph host init failed; falling back to sim")
			return led.NewSim(), nil
		}
		speed := physic.Frequency(cfg.SPI.SpeedHz) * physic.Hertz
		eng, err := serial.OpenSPI(cfg.SPI.Dev, speed, cube.Voxels)
		if err != nil {
			log.Warn().Err(err).Str("dev", cfg.SPI.Dev).Msg("SPI init failed; falling back to sim")
			return led.NewSim(), nil
		}
		return eng, eng

	case "nrz":
		if _, err := host.Init(); err != nil {
			log.Warn().Err(err).Msg("periph host init failed; falling back to sim")
			return led.NewSim(), nil
		}
		drv, err := led.NewNRZ(cfg.SPI.Dev, serial.SymbolRate, cube.Voxels)
		if err != nil {
			log.Warn().Err(err).Str("dev", cfg.SPI.Dev).Msg("nrzled init failed; falling back to sim")
			return led.NewSim(), nil
		}
		return drv, nil

	case "console":
		return led.NewConsole(), nil

	case "sim":
		return led.NewSim(), nil

	default:
		log.Warn().Str("driver", cfg.Driver).Msg("unknown driver; using sim")
		return led.NewSim(), nil
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
