package instance

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/kilianp07/busytime/core/model"
)

// Check returns a *MissingStartError for the first job without a start.
func Check(jobs []model.Job, sched model.Schedule) error {
	for _, j := range jobs {
		if _, ok := sched[j.Index]; !ok {
			return &MissingStartError{JobIndex: j.Index}
		}
	}
	return nil
}

// Write emits one start time per line in job order. Nothing is written
// when some job has no start time.
func Write(w io.Writer, jobs []model.Job, sched model.Schedule) error {
	if err := Check(jobs, sched); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for _, j := range jobs {
		if _, err := bw.WriteString(strconv.Itoa(sched[j.Index]) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes the solution to path, replacing any existing file.
func WriteFile(path string, jobs []model.Job, sched model.Schedule) error {
	if err := Check(jobs, sched); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, jobs, sched); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
