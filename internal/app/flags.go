package app

import (
	"flag"
	"strconv"

	"casque-hud/internal/config"
)

// Config represents the command-line parameters for the HUD binaries. Flags
// that the user sets explicitly override the YAML file.
type Config struct {
	ConfigPath string
	Source     string
	Width      int
	Height     int
	Scale      int
	FPS        int
	Seed       int64
	Preview    string
	LogLevel   string

	set map[string]bool
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Source: "sim", Width: 640, Height: 480, Scale: 1, FPS: 30, Seed: 1337, LogLevel: "info"}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "YAML configuration file")
	fs.StringVar(&c.Source, "source", c.Source, "telemetry source (sim, mqtt, nats, none)")
	fs.IntVar(&c.Width, "w", c.Width, "frame width")
	fs.IntVar(&c.Height, "h", c.Height, "frame height")
	fs.IntVar(&c.Scale, "scale", c.Scale, "viewer pixel scale multiplier")
	fs.IntVar(&c.FPS, "fps", c.FPS, "frames per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the sim source")
	fs.StringVar(&c.Preview, "preview", c.Preview, "serve the frame preview on this address (empty disables)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
}

// Capture records which flags were set on the command line. Call it after
// fs.Parse.
func (c *Config) Capture(fs *flag.FlagSet) {
	c.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { c.set[f.Name] = true })
}

// Resolve loads the YAML file (if any), applies explicit flags on top,
// validates and normalizes the result. Without a file every flag value is
// used.
func (c *Config) Resolve() (*config.Config, error) {
	file := &config.Config{}
	fromFile := c.ConfigPath != ""
	if fromFile {
		loaded, err := config.Load(c.ConfigPath)
		if err != nil {
			return nil, err
		}
		file = loaded
	}
	use := func(name string) bool { return !fromFile || c.set[name] }

	if use("source") {
		file.Ingest.Source = c.Source
	}
	if use("w") {
		file.Display.Width = c.Width
	}
	if use("h") {
		file.Display.Height = c.Height
	}
	if use("scale") {
		file.Display.Scale = c.Scale
	}
	if use("fps") {
		file.Display.FPS = c.FPS
	}
	if use("preview") && c.Preview != "" {
		file.Preview.Enabled = true
		file.Preview.Addr = c.Preview
	}
	if use("log-level") {
		file.Log.Level = c.LogLevel
	}
	if file.Ingest.Source == "sim" && (use("seed") || file.Ingest.Options["seed"] == "") {
		if file.Ingest.Options == nil {
			file.Ingest.Options = map[string]string{}
		}
		file.Ingest.Options["seed"] = strconv.FormatInt(c.Seed, 10)
	}

	if err := config.Validate(file); err != nil {
		return nil, err
	}
	config.Normalize(file)
	return file, nil
}
