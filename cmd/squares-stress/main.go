package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/plus3/colorsquares/game"
)

const tickRate = 60

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	seed := flag.Uint64("seed", 1, "Seed for the color generator.")
	colors := flag.Int("colors", 15, "Number of colors in play.")
	speed := flag.Int("speed", game.MaxSpeed, "Fall speed level.")
	squares := flag.Int("squares", 50, "Squares per session.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	settings := game.Settings{Colors: *colors, Speed: *speed, Total: *squares}
	g, err := game.New(game.DefaultConfig(), game.WithSeed(*seed), game.WithSettings(settings))
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}

	log.Printf("Running autopilot sessions for %s (%+v)...\n", *duration, settings)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	report := run(ctx, g)
	report.Duration = *duration
	report.Seed = *seed
	report.GCPauseMetrics = *gcPauseMetrics
	log.Println("Simulation finished.")

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}

// run plays back-to-back autopilot sessions on g as fast as possible until
// ctx is done.
func run(ctx context.Context, g *game.Game) *Report {
	report := &Report{Settings: g.Session().Settings}
	pilot := game.NewAutopilot(g.Config())
	pilot.Restart = true
	outcomes := make(map[game.Outcome]int)

	runtime.ReadMemStats(&report.MemStatsStart)
	startTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			g.Push(pilot.Plan(g.Snapshot())...)

			tickStart := time.Now()
			g.Step(1.0 / tickRate)
			report.TickTime.Samples = append(report.TickTime.Samples, time.Since(tickStart))
			report.TotalTicks++

			for _, e := range g.Events() {
				report.Events++
				if e.Kind == game.EventGameOver {
					outcomes[e.Outcome]++
					report.Sessions++
				}
			}
		}
	}

	report.TotalTime = time.Since(startTime)
	report.SimulatedTime = time.Duration(report.TotalTicks) * time.Second / tickRate
	report.TickTime.Finalize()
	report.Outcomes = countOutcomes(outcomes)
	report.Systems = g.Scheduler().GetStats().Systems
	report.Storage = g.Storage().CollectStats()
	runtime.ReadMemStats(&report.MemStatsEnd)
	return report
}
