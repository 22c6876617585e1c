package metrics

import (
	"fmt"

	coremetrics "github.com/kilianp07/releaseplan/core/metrics"
)

func init() {
	if err := coremetrics.RegisterSink("prometheus", func(c coremetrics.SinkConfig) (coremetrics.Sink, error) {
		return NewPromSink(c.Path)
	}); err != nil {
		panic(err)
	}
	if err := coremetrics.RegisterSink("influx", func(c coremetrics.SinkConfig) (coremetrics.Sink, error) {
		if c.URL == "" {
			return nil, fmt.Errorf("influx sink requires url")
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	}); err != nil {
		panic(err)
	}
}
