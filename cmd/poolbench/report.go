package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/fluxorio/taskpool/pkg/profile"
)

// renderReport prints the merged timing report as a table, one row per step.
func renderReport(w io.Writer, timer *profile.Timer) {
	steps := timer.Steps()
	if len(steps) == 0 {
		fmt.Fprintln(w, "no timings recorded")
		return
	}

	headerColor := color.New(color.FgCyan, color.Bold).SprintFunc()

	table := tablewriter.NewWriter(w)
	headers := []string{"STEP", "TOTAL", "COUNT", "EXTRA", "AVG"}
	colored := make([]string, len(headers))
	for i, h := range headers {
		colored[i] = headerColor(h)
	}
	table.SetHeader(colored)

	for _, step := range steps {
		total := timer.Total(step)
		count := timer.Count(step)

		avg := time.Duration(0)
		if count > 0 {
			avg = total / time.Duration(count)
		}

		table.Append([]string{
			step,
			total.String(),
			fmt.Sprintf("%d", count),
			fmt.Sprintf("%d", timer.Extra(step)),
			avg.String(),
		})
	}

	table.Render()
}
