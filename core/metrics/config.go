package metrics

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []SinkConfig `json:"sinks" yaml:"sinks"`
}

// SinkConfig configures a single sink. Only the fields relevant to Type are
// used.
type SinkConfig struct {
	Type string `json:"type" yaml:"type"`
	// Path is the Prometheus textfile written after each run.
	Path string `json:"path" yaml:"path"`
	// URL, Token, Org and Bucket address an InfluxDB v2 instance.
	URL    string `json:"url" yaml:"url"`
	Token  string `json:"token" yaml:"token"`
	Org    string `json:"org" yaml:"org"`
	Bucket string `json:"bucket" yaml:"bucket"`
}
