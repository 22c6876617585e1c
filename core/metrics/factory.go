package metrics

import (
	"fmt"
	"sync"
)

// Factory builds a Sink from its configuration.
type Factory func(SinkConfig) (Sink, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{
		"nop": func(SinkConfig) (Sink, error) { return NopSink{}, nil },
	}
)

// RegisterSink adds a sink factory identified by name.
func RegisterSink(name string, f Factory) error {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[name]; ok {
		return fmt.Errorf("metrics sink %q already registered", name)
	}
	registry[name] = f
	return nil
}

func create(cfg SinkConfig) (Sink, error) {
	registryMu.RLock()
	f, ok := registry[cfg.Type]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown metrics sink %q", cfg.Type)
	}
	return f(cfg)
}

// NewSink creates a Sink from the provided configuration. Several sinks are
// combined into a MultiSink.
func NewSink(cfgs []SinkConfig) (Sink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return create(cfgs[0])
	}
	sinks := make([]Sink, len(cfgs))
	for i, c := range cfgs {
		s, err := create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
