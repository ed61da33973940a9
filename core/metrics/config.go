package metrics

import "github.com/kilianp07/busytime/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// ListenAddr exposes /metrics when a prometheus sink is configured.
	ListenAddr string `json:"listen_addr"`
}

// HasSink reports whether a sink of the given type is configured.
func (c Config) HasSink(kind string) bool {
	for _, s := range c.Sinks {
		if s.Type == kind {
			return true
		}
	}
	return false
}
