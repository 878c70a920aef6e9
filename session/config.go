package session

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/timewinder-dev/duosort/catalog"
	"github.com/timewinder-dev/duosort/lanes"
)

var validate = validator.New()

// Config describes a session: the shared array, what each lane runs, and which
// custom algorithms to admit at startup.
type Config struct {
	Array  ArrayConfig    `toml:"array"`
	Lanes  []LaneConfig   `toml:"lane" validate:"max=2,dive"`
	Custom []CustomConfig `toml:"custom" validate:"dive"`
	Script ScriptConfig   `toml:"script"`
}

type ArrayConfig struct {
	Size int `toml:"size" validate:"gte=5,lte=100"`
	Min  int `toml:"min" validate:"gte=1,lte=100"`
	Max  int `toml:"max" validate:"gtefield=Min,lte=100"`
	// Seed fixes the generated arrays. Zero picks a random seed.
	Seed uint64 `toml:"seed,omitempty"`
}

type LaneConfig struct {
	Algorithm  string `toml:"algorithm" validate:"required"`
	IntervalMS int    `toml:"interval_ms" validate:"gte=1,lte=1000"`
}

func (l LaneConfig) Interval() time.Duration {
	return time.Duration(l.IntervalMS) * time.Millisecond
}

// CustomConfig admits the Starlark file File under Name. Relative paths are resolved
// against the directory of the config file.
type CustomConfig struct {
	Name string `toml:"name" validate:"required"`
	File string `toml:"file" validate:"required"`
}

type ScriptConfig struct {
	MaxSteps uint64 `toml:"max_steps,omitempty"`
}

const DefaultIntervalMS = 50

// DefaultConfig is the configuration used when no file is given.
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Array.Size == 0 {
		c.Array.Size = lanes.DefaultSize
	}
	if c.Array.Min == 0 {
		c.Array.Min = lanes.DefaultMin
	}
	if c.Array.Max == 0 {
		c.Array.Max = lanes.DefaultMax
	}
	if len(c.Lanes) == 0 {
		c.Lanes = []LaneConfig{
			{Algorithm: catalog.Bubble},
			{Algorithm: catalog.Quick},
		}
	}
	for i := range c.Lanes {
		if c.Lanes[i].IntervalMS == 0 {
			c.Lanes[i].IntervalMS = DefaultIntervalMS
		}
	}
}

// Validate checks field ranges. Algorithm names are checked when the session is built,
// since custom algorithms are only known then.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func ParseConfig(r io.Reader) (*Config, error) {
	var out Config
	if _, err := toml.NewDecoder(r).Decode(&out); err != nil {
		return nil, err
	}
	out.applyDefaults()
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func LoadConfigFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := ParseConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	filedir := filepath.Dir(path)
	for i, cu := range c.Custom {
		if !filepath.IsAbs(cu.File) {
			c.Custom[i].File = filepath.Clean(filepath.Join(filedir, cu.File))
		}
	}
	return c, nil
}
