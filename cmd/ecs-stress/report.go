package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/yulebrawl/ecs"
)

// Report is rendered as Markdown at the end of a run.
type Report struct {
	Duration time.Duration
	Entities int
	Systems  int

	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	PeakEntities   int
	FinalEntities  int
	SystemStats    []ecs.SystemStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// Stats summarizes per-tick update durations.
type Stats struct {
	Min, Max, Avg time.Duration
	P50, P99      time.Duration
	Samples       []time.Duration
}

// Finalize sorts the samples and fills in the summary fields.
func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}
	slices.Sort(s.Samples)

	var total time.Duration
	for _, sample := range s.Samples {
		total += sample
	}
	s.Min = s.Samples[0]
	s.Max = s.Samples[len(s.Samples)-1]
	s.Avg = total / time.Duration(len(s.Samples))
	s.P50 = s.percentile(50)
	s.P99 = s.percentile(99)
}

func (s *Stats) percentile(p int) time.Duration {
	i := (len(s.Samples) - 1) * p / 100
	return s.Samples[i]
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Arena Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Fighters:** {{.Entities}}
- **Pipeline Systems:** {{.Systems}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Tick:** avg {{.UpdateTime.Avg}}, p50 {{.UpdateTime.P50}}, p99 {{.UpdateTime.P99}}, min {{.UpdateTime.Min}}, max {{.UpdateTime.Max}}
- **Entities:** peak {{.PeakEntities}}, final {{.FinalEntities}}

## Per-System Time
| System | Avg | Max | Total |
|---|---|---|---|
{{range .SystemStats}}| {{.Name}} | {{.AvgDuration}} | {{.MaxDuration}} | {{.TotalDuration}} |
{{end}}
## Memory
| | Start | End | Delta |
|---|---|---|---|
| Heap | {{mib .MemStatsStart.HeapAlloc}} | {{mib .MemStatsEnd.HeapAlloc}} | {{delta .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}} |
| Total alloc | {{mib .MemStatsStart.TotalAlloc}} | {{mib .MemStatsEnd.TotalAlloc}} | {{delta .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}} |
| Sys | {{mib .MemStatsStart.Sys}} | {{mib .MemStatsEnd.Sys}} | {{delta .MemStatsEnd.Sys .MemStatsStart.Sys}} |
| GC cycles | {{.MemStatsStart.NumGC}} | {{.MemStatsEnd.NumGC}} | {{gcs .MemStatsEnd.NumGC .MemStatsStart.NumGC}} |
{{if .GCPauseMetrics}}
Total GC pause: {{ns .MemStatsEnd.PauseTotalNs}}
{{end}}`

	fm := template.FuncMap{
		"mib": func(b uint64) string {
			return fmt.Sprintf("%.1f MiB", float64(b)/(1<<20))
		},
		"delta": func(end, start uint64) string {
			return fmt.Sprintf("%+.1f MiB", (float64(end)-float64(start))/(1<<20))
		},
		"gcs": func(end, start uint32) uint32 {
			return end - start
		},
		"ns": func(ns uint64) time.Duration {
			return time.Duration(ns)
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
