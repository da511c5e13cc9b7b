package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/plus3/colorsquares/frontend/desktop"
	"github.com/plus3/colorsquares/frontend/snapshot"
	"github.com/plus3/colorsquares/frontend/terminal"
	"github.com/plus3/colorsquares/game"
	"github.com/plus3/colorsquares/metrics"
)

type options struct {
	mode        string
	seed        uint64
	settings    game.Settings
	debug       bool
	metricsAddr string
	ticks       int
	out         string
	frameEvery  int
	autopilot   bool
}

func parseFlags(args []string) (options, error) {
	defaults := game.DefaultSettings()
	var o options

	fs := flag.NewFlagSet("colorsquares", flag.ContinueOnError)
	fs.StringVar(&o.mode, "mode", "desktop", "Frontend: desktop, terminal or headless.")
	fs.Uint64Var(&o.seed, "seed", 1, "Seed for the color generator.")
	fs.IntVar(&o.settings.Colors, "colors", defaults.Colors, "Number of colors in play.")
	fs.IntVar(&o.settings.Speed, "speed", defaults.Speed, "Fall speed level.")
	fs.IntVar(&o.settings.Total, "squares", defaults.Total, "Squares per session.")
	fs.BoolVar(&o.debug, "debug", false, "Show the Dear ImGui debug overlay (desktop only).")
	fs.StringVar(&o.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address.")
	fs.IntVar(&o.ticks, "ticks", 3600, "Ticks to simulate (headless only).")
	fs.StringVar(&o.out, "out", "frames", "Directory for PNG frames (headless only).")
	fs.IntVar(&o.frameEvery, "frame-every", 60, "Write every n-th frame (headless only).")
	fs.BoolVar(&o.autopilot, "autopilot", true, "Let the autopilot play (headless only).")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	switch o.mode {
	case "desktop", "terminal", "headless":
	default:
		return o, fmt.Errorf("unknown mode %q", o.mode)
	}
	if err := o.settings.Validate(); err != nil {
		return o, err
	}
	return o, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("colorsquares: %v", err)
	}
}

func run(opts options) error {
	cfg := game.DefaultConfig()
	gameOpts := []game.Option{game.WithSeed(opts.seed), game.WithSettings(opts.settings)}

	var recorder *metrics.MetricsSystem
	if opts.metricsAddr != "" {
		collector := metrics.NewCollector()
		recorder = &metrics.MetricsSystem{Collector: collector}
		gameOpts = append(gameOpts, game.WithSystems(recorder))
		srv := collector.Serve(opts.metricsAddr)
		defer srv.Close()
	}

	log.Printf("Starting %s mode with %+v, seed %d", opts.mode, opts.settings, opts.seed)

	if opts.mode == "desktop" {
		app, err := desktop.New(cfg, desktop.Options{Debug: opts.debug}, gameOpts...)
		if err != nil {
			return err
		}
		if recorder != nil {
			recorder.Scheduler = app.Scheduler()
		}
		return app.Run()
	}

	g, err := game.New(cfg, gameOpts...)
	if err != nil {
		return err
	}
	if recorder != nil {
		recorder.Scheduler = g.Scheduler()
	}

	switch opts.mode {
	case "terminal":
		screen, err := terminal.Open()
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		defer screen.Fini()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return terminal.New(screen, g, terminal.Options{}).Run(ctx)

	case "headless":
		paths, err := snapshot.Run(g, snapshot.Options{
			Ticks:      opts.ticks,
			FrameEvery: opts.frameEvery,
			OutDir:     opts.out,
			Autopilot:  opts.autopilot,
		})
		if err != nil {
			return err
		}
		log.Printf("Wrote %d frames to %s; %s", len(paths), opts.out, g)
	}
	return nil
}
