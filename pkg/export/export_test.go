package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/kilianp07/busytime/core/model"
	"github.com/kilianp07/busytime/core/scheduler"
)

func samplePlan() *scheduler.Plan {
	return &scheduler.Plan{
		Jobs: []model.Job{
			{Index: 0, Release: 0, Deadline: 5, Duration: 3},
			{Index: 1, Release: 1, Deadline: 4, Duration: 2},
			{Index: 2, Release: 9, Deadline: 10, Duration: 5},
		},
		Cost:     3,
		Feasible: true,
		Schedule: model.Schedule{0: 2, 1: 2},
		Pivoted:  []int{0},
		Fallback: []int{1},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, samplePlan()); err != nil {
		t.Fatalf("csv: %v", err)
	}
	want := "job,release,deadline,duration,start,source\n" +
		"0,0,5,3,2,solver\n" +
		"1,1,4,2,2,fallback\n" +
		"2,9,10,5,,none\n"
	if buf.String() != want {
		t.Fatalf("unexpected csv:\n%s", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, samplePlan()); err != nil {
		t.Fatalf("json: %v", err)
	}
	var out struct {
		Cost     int            `json:"cost"`
		Schedule map[string]int `json:"schedule"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Cost != 3 || out.Schedule["1"] != 2 {
		t.Fatalf("unexpected json %s", buf.String())
	}
}
