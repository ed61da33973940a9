package config

import (
	"fmt"
	"strings"
)

// BatchConfig describes the range of instances processed by the batch
// command.
type BatchConfig struct {
	// InstancePattern is a fmt pattern taking the instance number.
	InstancePattern string `json:"instance_pattern"`
	// SolutionPattern names the solution written for an instance.
	SolutionPattern string `json:"solution_pattern"`
	First           int    `json:"first"`
	Count           int    `json:"count"`
}

// SetDefaults applies the instanceNN/solutionNN naming over 100 instances.
func (c *BatchConfig) SetDefaults() {
	if c.InstancePattern == "" {
		c.InstancePattern = "instance%02d.txt"
	}
	if c.SolutionPattern == "" {
		c.SolutionPattern = "solution%02d.txt"
	}
	if c.Count == 0 {
		c.Count = 100
	}
}

// Validate checks the range and the name patterns.
func (c BatchConfig) Validate() error {
	if c.First < 0 || c.Count < 0 {
		return fmt.Errorf("batch: first and count must be non-negative")
	}
	if err := checkPattern("instance_pattern", c.InstancePattern); err != nil {
		return err
	}
	if err := checkPattern("solution_pattern", c.SolutionPattern); err != nil {
		return err
	}
	if c.InstancePattern == c.SolutionPattern {
		return fmt.Errorf("batch: solution_pattern must differ from instance_pattern")
	}
	return nil
}

// Names returns the instance and solution names of instance number i.
func (c BatchConfig) Names(i int) (instance, solution string) {
	return fmt.Sprintf(c.InstancePattern, i), fmt.Sprintf(c.SolutionPattern, i)
}

func checkPattern(field, p string) error {
	if p == "" {
		return fmt.Errorf("batch: %s is required", field)
	}
	if got := fmt.Sprintf(p, 0); strings.Contains(got, "%!") || got == p {
		return fmt.Errorf("batch: %s %q must hold one integer verb", field, p)
	}
	return nil
}
