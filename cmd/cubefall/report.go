package main

import (
	"io"
	"text/template"
	"time"

	"github.com/plus3/cubefall/tetra"
)

type Report struct {
	// Configuration
	Config  tetra.Config
	Pieces  int
	Frame   time.Duration
	Version string

	// Results
	Session  string
	Placed   int
	Score    int
	Level    int
	Lines    int
	GameOver bool
	Clears   []int
	Frames   uint64
	SimTime  time.Duration
	WallTime time.Duration
	Replans  int
	PlanTime Stats
	Systems  []tetra.SystemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# cubefall simulation report

## Configuration
- **Grid:** {{.Config.Width}} x {{.Config.Height}} x {{.Config.Depth}}
- **Target Pieces:** {{.Pieces}}
- **Seed:** {{.Config.Seed}}
- **Frame:** {{.Frame}}
- **Timer Policy:** {{.Config.TimerPolicy}}
- **Go:** {{.Version}}

## Results
- **Session:** {{.Session}}
- **Pieces Placed:** {{.Placed}}
- **Score:** {{.Score}}
- **Level:** {{.Level}}
- **Lines:** {{.Lines}}
- **Ended:** {{if .GameOver}}game over{{else}}target reached{{end}}
- **Simulated Time:** {{.SimTime}} over {{.Frames}} frames
- **Wall Time:** {{.WallTime}}

## Clears
| Layers | Count |
|--------|-------|
{{- range $n, $count := .Clears}}{{if $n}}
| {{$n}} | {{$count}} |{{end}}{{end}}

## Planner
- **Plans:** {{len .PlanTime.Samples}}
- **Replans:** {{.Replans}}
- **Plan Time:** avg {{.PlanTime.Avg}}, min {{.PlanTime.Min}}, max {{.PlanTime.Max}}

## Systems
| System | Runs | Avg | Max |
|--------|------|-----|-----|
{{- range .Systems}}
| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MaxDuration}} |
{{- end}}
`

	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
