package cfg

import (
	"cmp"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

const (
	defaultOutput  = "public/feed.json"
	defaultTimeout = 30 // seconds
)

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Feed configuration
	FeedURL    string `long:"feed-url" env:"FEED_URL" description:"RSS feed URL to snapshot"`
	Output     string `long:"output" short:"o" env:"OUTPUT" description:"Path of the JSON snapshot (default: public/feed.json)"`
	ConfigFile string `long:"config" short:"c" env:"CONFIG_FILE" description:"Optional YAML configuration file"`
	Timeout    int    `long:"timeout" env:"FETCH_TIMEOUT" description:"Fetch timeout in seconds (default: 30)"`
	UserAgent  string `long:"user-agent" env:"USER_AGENT" description:"User agent string for HTTP requests"`
	NoDiscover bool   `long:"no-discover" env:"NO_DISCOVER" description:"Do not look for a feed link when the URL serves an HTML page"`

	// Server configuration
	Serve        bool   `long:"serve" env:"SERVE" description:"Keep running and serve the snapshot over HTTP"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for the refresh endpoint (optional)"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses the command line and environment. It returns nil, nil when
// help was requested.
func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	var file fileCfg
	if raw.ConfigFile != "" {
		loaded, err := loadFile(raw.ConfigFile)
		if err != nil {
			return nil, err
		}
		file = *loaded
	}

	version := GetVersion()
	cfg := &Cfg{
		FeedURL:      strings.TrimSpace(cmp.Or(raw.FeedURL, file.FeedURL)),
		Output:       cmp.Or(raw.Output, file.Output, defaultOutput),
		FetchTimeout: time.Duration(cmp.Or(raw.Timeout, file.Timeout, defaultTimeout)) * time.Second,
		UserAgent:    cmp.Or(raw.UserAgent, file.UserAgent, "RSS Snap/"+version),
		Discover:     !raw.NoDiscover,
		Serve:        raw.Serve,
		Port:         raw.Port,
		APIAccessKey: raw.APIAccessKey,
		Timezone:     raw.Timezone,
		Debug:        raw.Debug,
		Version:      version,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func validate(cfg *Cfg) error {
	if cfg.FeedURL == "" {
		return fmt.Errorf("feed URL is required (--feed-url, FEED_URL or feed_url in the config file)")
	}

	u, err := url.Parse(cfg.FeedURL)
	if err != nil {
		return fmt.Errorf("invalid feed URL %q: %w", cfg.FeedURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid feed URL %q: must be an absolute http(s) URL", cfg.FeedURL)
	}

	if cfg.FetchTimeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}

	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
