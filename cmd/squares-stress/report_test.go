package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/plus3/colorsquares/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFinalize(t *testing.T) {
	s := Stats{Samples: []time.Duration{3, 1, 2, 10}}
	s.Finalize()
	assert.Equal(t, time.Duration(1), s.Min)
	assert.Equal(t, time.Duration(10), s.Max)
	assert.Equal(t, time.Duration(4), s.Avg)
	assert.Equal(t, time.Duration(3), s.P99)

	empty := Stats{}
	empty.Finalize()
	assert.Zero(t, empty.Max)
}

func TestRunProducesReport(t *testing.T) {
	g, err := game.New(game.DefaultConfig(), game.WithSeed(4),
		game.WithSettings(game.Settings{Colors: 4, Speed: game.MaxSpeed, Total: 10}))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	report := run(ctx, g)

	require.Positive(t, report.TotalTicks)
	assert.Len(t, report.TickTime.Samples, int(report.TotalTicks))
	assert.Len(t, report.Systems, 5)
	require.NotNil(t, report.Storage)

	total := 0
	for _, o := range report.Outcomes {
		total += o.Count
	}
	assert.Equal(t, report.Sessions, total)

	var out strings.Builder
	require.NoError(t, report.Generate(&out))
	assert.Contains(t, out.String(), "# Color Squares Stress Report")
	assert.Contains(t, out.String(), "| RulesSystem |")
}

func TestCountOutcomesIsSorted(t *testing.T) {
	got := countOutcomes(map[game.Outcome]int{
		game.OutcomeOverflow:  2,
		game.OutcomeCleared:   1,
		game.OutcomeExhausted: 3,
	})
	assert.Equal(t, []OutcomeCount{
		{"cleared", 1}, {"exhausted", 3}, {"overflow", 2},
	}, got)
}
