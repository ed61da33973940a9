// Package metrics defines the events recorded while instances are solved
// and the sink interfaces that persist them. Sinks like PromSink and
// InfluxSink (infra/metrics) register themselves in the factory and can be
// combined with NewMultiSink. NewMetricsSink returns a MultiSink
// automatically when multiple sinks are configured.
package metrics
