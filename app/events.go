package app

import (
	"time"

	"github.com/kilianp07/busytime/core/model"
	coremqtt "github.com/kilianp07/busytime/core/mqtt"
	"github.com/kilianp07/busytime/core/scheduler"
)

// InstanceEvent is published on the batch bus after each instance.
type InstanceEvent struct {
	RunID    string
	Index    int
	Instance string
	Solution string
	Outcome  model.Outcome
	// Plan is nil when the instance could not be loaded.
	Plan     *scheduler.Plan
	Err      error
	Duration time.Duration
	Time     time.Time
}

// Message converts the event into its MQTT payload.
func (ev InstanceEvent) Message() coremqtt.InstanceMessage {
	msg := coremqtt.NewInstanceMessage(ev.RunID, ev.Instance, ev.Outcome)
	if !ev.Time.IsZero() {
		msg.Timestamp = ev.Time.UnixMilli()
	}
	if ev.Err != nil {
		msg.Error = ev.Err.Error()
	}
	if ev.Plan == nil {
		return msg
	}
	msg.Cost = ev.Plan.Cost
	msg.Jobs = len(ev.Plan.Jobs)
	if ev.Outcome == model.OutcomeSolved {
		msg.Starts = make([]int, len(ev.Plan.Jobs))
		for i, j := range ev.Plan.Jobs {
			msg.Starts[i] = ev.Plan.Schedule[j.Index]
		}
	}
	return msg
}
