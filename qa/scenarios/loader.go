// Package scenarios runs YAML described scheduling scenarios end to end
// through the scheduler and the metrics sink.
package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/busytime/core/model"
)

// JobDef is one job of a scenario, listed in load order.
type JobDef struct {
	Release  int `yaml:"release"`
	Deadline int `yaml:"deadline"`
	Duration int `yaml:"duration"`
}

// Expected lists the checks applied to a scenario's plan. Nil fields are
// not checked.
type Expected struct {
	Cost          *int        `yaml:"cost,omitempty"`
	Starts        map[int]int `yaml:"starts,omitempty"`
	Fallback      []int       `yaml:"fallback,omitempty"`
	Unschedulable []int       `yaml:"unschedulable,omitempty"`
}

type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Parallelism int      `yaml:"parallelism,omitempty"`
	Jobs        []JobDef `yaml:"jobs"`
	Expected    Expected `yaml:"expected"`
}

// Model returns the jobs with their load order index.
func (s *Scenario) Model() []model.Job {
	jobs := make([]model.Job, len(s.Jobs))
	for i, j := range s.Jobs {
		jobs[i] = model.Job{Index: i, Release: j.Release, Deadline: j.Deadline, Duration: j.Duration}
	}
	return jobs
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("%s: scenario name is required", path)
	}
	for _, j := range sc.Model() {
		if err := j.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return &sc, nil
}
