// Package infra holds the adapters of the release planner: the release file
// codec, the zerolog logger, the metrics sinks and the MQTT plan publisher.
// They implement interfaces declared under core.
package infra
