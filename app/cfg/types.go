package cfg

import "time"

type Cfg struct {
	// Feed configuration
	FeedURL      string
	Output       string
	FetchTimeout time.Duration
	UserAgent    string
	Discover     bool

	// Server configuration
	Serve        bool
	Port         string
	APIAccessKey string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}

// fileCfg is the optional YAML configuration file.
type fileCfg struct {
	FeedURL   string `yaml:"feed_url"`
	Output    string `yaml:"output"`
	Timeout   int    `yaml:"timeout"` // seconds
	UserAgent string `yaml:"user_agent"`
}
