package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/yulebrawl/ecs"
)

func TestStatsFinalize(t *testing.T) {
	s := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}}
	s.Finalize()

	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 3*time.Millisecond, s.Max)
	assert.Equal(t, 2*time.Millisecond, s.Avg)
	assert.Equal(t, 2*time.Millisecond, s.P50)
}

func TestStatsPercentiles(t *testing.T) {
	var s Stats
	for i := 100; i >= 1; i-- {
		s.Samples = append(s.Samples, time.Duration(i)*time.Millisecond)
	}
	s.Finalize()

	assert.Equal(t, 50*time.Millisecond, s.P50)
	assert.Equal(t, 99*time.Millisecond, s.P99)
	assert.Equal(t, 100*time.Millisecond, s.Max)
}

func TestStatsFinalizeEmpty(t *testing.T) {
	var s Stats
	s.Finalize()
	assert.Zero(t, s.Avg)
}

func TestReportGenerate(t *testing.T) {
	report := &Report{
		Duration:     time.Second,
		Entities:     10,
		Systems:      14,
		TotalUpdates: 42,
		SystemStats:  []ecs.SystemStats{{Name: "CollideSystem", AvgDuration: time.Microsecond}},
	}

	var buf bytes.Buffer
	require.NoError(t, report.Generate(&buf))
	assert.Contains(t, buf.String(), "**Total Updates:** 42")
	assert.Contains(t, buf.String(), "| CollideSystem | 1µs |")
	assert.Contains(t, buf.String(), "| Heap | 0.0 MiB | 0.0 MiB | +0.0 MiB |")
}
