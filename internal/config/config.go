// Package config holds runtime settings for the crawler and the converter.
//
// Settings are layered: compiled defaults, then an optional YAML file, then
// AUTORACE_-prefixed environment variables. The venue table and the category
// vocabulary live here so that parsing components receive them as plain
// immutable data rather than reaching for globals.
package config

import "time"

// Config contains process configuration for both binaries.
type Config struct {
	// BaseURL is the scheme and host of the public results site.
	BaseURL string `koanf:"base_url"`

	// UserAgent is sent on every fetch.
	UserAgent string `koanf:"user_agent"`

	// DataDir holds the csv/ and date/ artifact directories. A ~/ prefix is
	// expanded to the user's home directory.
	DataDir string `koanf:"data_dir"`

	// TimeoutSeconds bounds a single fetch attempt.
	TimeoutSeconds int `koanf:"timeout_seconds"`

	// MaxRetries bounds re-attempts after a failed fetch of one page.
	MaxRetries uint64 `koanf:"max_retries"`

	// Venues maps the site's place codes to venue names. Code 01 is
	// unassigned on the live site.
	Venues map[string]string `koanf:"venues"`

	// Categories is the race-tier vocabulary matched against race headings.
	// Entries are regular-expression alternatives tried leftmost-first.
	Categories []string `koanf:"categories"`
}

// Default returns the built-in configuration for the public Oddspark site.
func Default() *Config {
	return &Config{
		BaseURL:        "https://www.oddspark.com",
		UserAgent:      "Mozilla/5.0 (compatible; MofuTimer-Auto/1.0; +https://example.invalid)",
		DataDir:        "~/.local/share/autorace-schedule",
		TimeoutSeconds: 20,
		MaxRetries:     3,
		Venues: map[string]string{
			"02": "川口",
			"03": "伊勢崎",
			"04": "浜松",
			"05": "飯塚",
			"06": "山陽",
		},
		Categories: []string{"一般", "予選", "準決勝?", "優勝戦", "特別", "選抜"},
	}
}

// Timeout returns the per-attempt fetch timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
