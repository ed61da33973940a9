// Package export renders plans in machine readable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/busytime/core/scheduler"
)

// Source values used in the CSV output.
const (
	SourceSolver   = "solver"
	SourceFallback = "fallback"
	SourceNone     = "none"
)

// WriteJSON writes the plan to w in JSON format.
func WriteJSON(w io.Writer, plan *scheduler.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}

// WriteCSV writes one row per job with its window, start and the pass that
// placed it. Jobs without a start have an empty start column.
func WriteCSV(w io.Writer, plan *scheduler.Plan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"job", "release", "deadline", "duration", "start", "source"}); err != nil {
		return err
	}
	pivoted := make(map[int]bool, len(plan.Pivoted))
	for _, idx := range plan.Pivoted {
		pivoted[idx] = true
	}
	for _, j := range plan.Jobs {
		start, source := "", SourceNone
		if s, ok := plan.Schedule[j.Index]; ok {
			start = strconv.Itoa(s)
			source = SourceFallback
			if pivoted[j.Index] {
				source = SourceSolver
			}
		}
		rec := []string{
			strconv.Itoa(j.Index),
			strconv.Itoa(j.Release),
			strconv.Itoa(j.Deadline),
			strconv.Itoa(j.Duration),
			start,
			source,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
