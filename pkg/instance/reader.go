// Package instance reads job lists and writes start-time solutions in the
// plain text format used by the batch inputs.
//
// An instance starts with the job count on its own line, followed by one
// line per job holding the release time, the deadline and the duration.
// A solution holds one start time per line in job order.
package instance

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kilianp07/busytime/core/model"
)

const maxPrealloc = 1024

// Read parses an instance. Job indices follow line order starting at 0.
func Read(r io.Reader) ([]model.Job, error) {
	sc := bufio.NewScanner(r)
	line := 0
	next := func() (string, bool) {
		for sc.Scan() {
			line++
			if text := strings.TrimSpace(sc.Text()); text != "" {
				return text, true
			}
		}
		return "", false
	}

	header, ok := next()
	if !ok {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, &ParseError{Msg: "missing job count"}
	}
	n, err := strconv.Atoi(header)
	if err != nil {
		return nil, &ParseError{Line: line, Msg: "invalid job count", Err: err}
	}
	if n < 0 {
		return nil, &ParseError{Line: line, Msg: "negative job count"}
	}

	// n is untrusted until the job lines are read.
	jobs := make([]model.Job, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		text, ok := next()
		if !ok {
			if err := sc.Err(); err != nil {
				return nil, err
			}
			return nil, &ParseError{Line: line, Msg: "expected " + strconv.Itoa(n) + " jobs, got " + strconv.Itoa(i)}
		}
		job, perr := parseJob(i, text)
		if perr != nil {
			perr.Line = line
			return nil, perr
		}
		jobs = append(jobs, job)
	}
	if _, extra := next(); extra {
		return nil, &ParseError{Line: line, Msg: "more job lines than announced"}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

func parseJob(index int, text string) (model.Job, *ParseError) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return model.Job{}, &ParseError{Msg: "expected 3 fields, got " + strconv.Itoa(len(fields))}
	}
	var v [3]int
	for k, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return model.Job{}, &ParseError{Msg: "invalid number " + strconv.Quote(f), Err: err}
		}
		v[k] = n
	}
	job := model.Job{Index: index, Release: v[0], Deadline: v[1], Duration: v[2]}
	if err := job.Validate(); err != nil {
		return model.Job{}, &ParseError{Msg: err.Error()}
	}
	return job, nil
}

// ReadFile parses the instance stored at path.
func ReadFile(path string) ([]model.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}
