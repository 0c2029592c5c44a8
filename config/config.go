package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/BurntSushi/toml"
)

const baseCfgPath = "currentcapital/config.toml"

type Config struct {
	Feeds       []string `toml:"feeds"`
	UserAgent   string   `toml:"user_agent"`
	Timeout     Duration `toml:"timeout"`
	MaxWords    int      `toml:"max_words"`   // Words kept per summary
	Concurrency int      `toml:"concurrency"` // Feeds downloaded at once (1 = sequential)
	OutputPath  string   `toml:"output_path"` // Relative paths resolve against the working directory
	Site        Site     `toml:"site"`
}

// Site holds the static text around the article list
type Site struct {
	Title      string `toml:"title"`
	Tagline    string `toml:"tagline"`
	Credits    string `toml:"credits"`
	Stylesheet string `toml:"stylesheet"`
}

// Duration is a time.Duration written as "30s" in TOML
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Read decodes the config at cfgPath on top of Default, so unset keys keep
// their default value. Keys the generator does not know are logged.
func Read(cfgPath string) (Config, error) {
	conf := Default()
	md, err := toml.DecodeFile(cfgPath, &conf)
	if errors.Is(err, os.ErrNotExist) {
		return conf, err
	}
	if err != nil {
		return conf, fmt.Errorf("failed to decode config at %s with %w", cfgPath, err)
	}
	for _, key := range md.Undecoded() {
		slog.Warn("unknown config key ignored", "at", cfgPath, "key", key.String())
	}
	return conf, nil
}

// Write stores cfg at cfgPath, creating parent directories
func Write(cfgPath string, cfg Config) error {
	if err := os.MkdirAll(path.Dir(cfgPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create config directory for '%s' with %w", cfgPath, err)
	}
	out, err := os.Create(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to create config file at '%s' with %w", cfgPath, err)
	}
	defer out.Close()

	if err := toml.NewEncoder(out).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config with %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write config file at '%s' with %w", cfgPath, err)
	}
	slog.Info("config written", "at", cfgPath)
	return nil
}

// Validate reports every setting the generator cannot run with
func (c Config) Validate() error {
	var errs []error
	if len(c.Feeds) == 0 {
		errs = append(errs, errors.New("no feeds configured"))
	}
	for i, f := range c.Feeds {
		if f == "" {
			errs = append(errs, fmt.Errorf("feed #%d is empty", i+1))
		}
	}
	if c.Timeout.Duration <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.MaxWords < 0 {
		errs = append(errs, fmt.Errorf("max_words must not be negative, got %d", c.MaxWords))
	}
	if c.OutputPath == "" {
		errs = append(errs, errors.New("output_path is empty"))
	}
	return errors.Join(errs...)
}

func Default() Config {
	return Config{
		Feeds: []string{
			"https://feeds.theguardian.com/theguardian/uk/business/rss",
			"https://feeds.bbci.co.uk/news/business/rss.xml",
		},
		UserAgent:   "Mozilla/5.0",
		Timeout:     Duration{30 * time.Second},
		MaxWords:    50,
		Concurrency: 1,
		OutputPath:  "index.html",
		Site: Site{
			Title:      "Current Capital",
			Tagline:    "Concise business and finance news with source links",
			Credits:    "News summaries sourced from public feeds such as the BBC and The Guardian.",
			Stylesheet: "style.css",
		},
	}
}

func DefaultPath() string {
	var xdgHome = os.Getenv("XDG_CONFIG_HOME")
	if xdgHome != "" {
		return path.Join(xdgHome, baseCfgPath)
	}

	var home = os.Getenv("HOME")
	if home != "" {
		return path.Join(home, ".config", baseCfgPath)
	}

	// No home to speak of, keep the config next to the output
	return path.Base(baseCfgPath)
}
