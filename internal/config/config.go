package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/perhabs/internal/anaglyph"
)

const (
	DefaultDuration    = 60 * time.Second
	DefaultReps        = 60
	DefaultResultDelay = 800 * time.Millisecond
	DefaultLeftColor   = "#ff0000"
	DefaultRightColor  = "#00ffff"
)

var (
	ErrInvalid  = errors.New("config: invalid configuration")
	ErrNoPreset = errors.New("config: unknown preset")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Config struct {
	Theme           string                `yaml:"theme"`
	Seed            int64                 `yaml:"seed"`
	Colors          ColorsConfig          `yaml:"colors"`
	Vergence        VergenceConfig        `yaml:"vergence"`
	Saccades        SaccadesConfig        `yaml:"saccades"`
	ContainerSearch ContainerSearchConfig `yaml:"container_search"`
	SpatialHearing  SpatialHearingConfig  `yaml:"spatial_hearing"`
}

// SessionConfig bounds an evaluation. Duration 0 means repetitions only.
type SessionConfig struct {
	Duration    time.Duration `yaml:"duration" validate:"gte=0"`
	Repetitions int           `yaml:"repetitions" validate:"min=1,max=100000"`
	ResultDelay time.Duration `yaml:"result_delay" validate:"gte=0"`
}

type ColorsConfig struct {
	Left  string `yaml:"left" validate:"hexcolor"`
	Right string `yaml:"right" validate:"hexcolor"`
}

type VergenceConfig struct {
	SessionConfig   `yaml:",inline"`
	ResponseTimeout time.Duration   `yaml:"response_timeout" validate:"gt=0"`
	Depth           anaglyph.Config `yaml:"depth"`
}

type SaccadesConfig struct {
	SessionConfig `yaml:",inline"`
	GridSize      int           `yaml:"grid_size" validate:"min=1,max=20"`
	Presentation  time.Duration `yaml:"presentation" validate:"gt=0"`
	// Tolerance is the click box half-width as a fraction of the cell size.
	Tolerance float64 `yaml:"tolerance" validate:"gt=0,lte=1"`
}

type ContainerSearchConfig struct {
	SessionConfig   `yaml:",inline"`
	GridSize        int           `yaml:"grid_size" validate:"min=2,max=10"`
	StartLevel      int           `yaml:"start_level" validate:"gtefield=MinLevel,ltefield=MaxLevel"`
	MinLevel        int           `yaml:"min_level" validate:"min=1"`
	MaxLevel        int           `yaml:"max_level" validate:"gtefield=MinLevel"`
	Reveal          time.Duration `yaml:"reveal" validate:"gt=0"`
	ResponseTimeout time.Duration `yaml:"response_timeout" validate:"gt=0"`
	Tolerance       float64       `yaml:"tolerance" validate:"gt=0,lte=1"`
}

type SpatialHearingConfig struct {
	SessionConfig   `yaml:",inline"`
	Sources         int           `yaml:"sources" validate:"min=2,max=16"`
	Depth           float64       `yaml:"depth" validate:"gte=0,lt=1"`
	SourceSize      float64       `yaml:"source_size" validate:"gt=0,lte=0.5"`
	Cue             time.Duration `yaml:"cue" validate:"gt=0"`
	ResponseTimeout time.Duration `yaml:"response_timeout" validate:"gt=0"`
	VanishingX      float64       `yaml:"vanishing_x" validate:"gte=0,lte=1"`
	VanishingY      float64       `yaml:"vanishing_y" validate:"gte=0,lte=1"`
	WordsURL        string        `yaml:"words_url" validate:"omitempty,url"`
}

func session(reps int) SessionConfig {
	return SessionConfig{Duration: DefaultDuration, Repetitions: reps, ResultDelay: DefaultResultDelay}
}

func DefaultConfig() *Config {
	depth := anaglyph.DefaultConfig()
	depth.SharedBackground = true
	return &Config{
		Theme:  "minimal",
		Colors: ColorsConfig{Left: DefaultLeftColor, Right: DefaultRightColor},
		Vergence: VergenceConfig{
			SessionConfig:   session(DefaultReps),
			ResponseTimeout: 5 * time.Second,
			Depth:           depth,
		},
		Saccades: SaccadesConfig{
			SessionConfig: session(40),
			GridSize:      5,
			Presentation:  1500 * time.Millisecond,
			Tolerance:     0.5,
		},
		ContainerSearch: ContainerSearchConfig{
			SessionConfig:   SessionConfig{Duration: 3 * time.Minute, Repetitions: 60, ResultDelay: time.Second},
			GridSize:        4,
			StartLevel:      2,
			MinLevel:        1,
			MaxLevel:        9,
			Reveal:          2 * time.Second,
			ResponseTimeout: 15 * time.Second,
			Tolerance:       0.45,
		},
		SpatialHearing: SpatialHearingConfig{
			SessionConfig:   session(20),
			Sources:         6,
			Depth:           0.6,
			SourceSize:      0.12,
			Cue:             time.Second,
			ResponseTimeout: 6 * time.Second,
			VanishingX:      0.5,
			VanishingY:      0.5,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	cs := c.ContainerSearch
	if cells := cs.GridSize * cs.GridSize; cs.MinLevel > cells {
		return fmt.Errorf("%w: container_search min_level %d exceeds the %d cells of a %dx%d grid",
			ErrInvalid, cs.MinLevel, cells, cs.GridSize, cs.GridSize)
	}
	return nil
}

// EyeColors returns the parsed left and right anaglyph colors.
func (c *Config) EyeColors() (color.RGBA, color.RGBA) {
	left, err := ParseHex(c.Colors.Left)
	if err != nil {
		left = anaglyph.DefaultLeftColor
	}
	right, err := ParseHex(c.Colors.Right)
	if err != nil {
		right = anaglyph.DefaultRightColor
	}
	return left, right
}

// ParseHex parses #rgb or #rrggbb.
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("config: bad color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("config: bad color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
