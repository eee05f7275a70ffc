package config

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ZacxDev/video-captioner/internal/overlay"
	"github.com/ZacxDev/video-captioner/internal/profile"
	"github.com/ZacxDev/video-captioner/pkg/types"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// ErrInvalidColor is returned for colors that are neither #RRGGBB nor a known name
var ErrInvalidColor = errors.New("invalid color")

// Config holds all application configuration
type Config struct {
	Style   StyleConfig   `yaml:"style"`
	Output  OutputConfig  `yaml:"output"`
	Caption CaptionConfig `yaml:"caption"`
	Records RecordsConfig `yaml:"records"`
}

// StyleConfig is the file form of overlay.Config
type StyleConfig struct {
	FontScale     float64       `yaml:"font_scale"`
	TextColor     string        `yaml:"text_color"`
	FontThickness int           `yaml:"font_thickness"`
	ShadowColor   string        `yaml:"shadow_color"`
	ShadowOffsetX int           `yaml:"shadow_offset_x"`
	ShadowOffsetY int           `yaml:"shadow_offset_y"`
	Duration      time.Duration `yaml:"duration"`
}

type OutputConfig struct {
	Profile string `yaml:"profile"`
	Dir     string `yaml:"dir"`
}

type CaptionConfig struct {
	Provider types.CaptionProvider `yaml:"provider"`
	Model    string                `yaml:"model"`
	APIKey   string                `yaml:"api_key"`
}

type RecordsConfig struct {
	AcceptedTypes []string `yaml:"accepted_types"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.WithStack(err)
	}

	return os.WriteFile(path, data, 0644)
}

func defaultConfig() *Config {
	d := overlay.DefaultConfig()
	return &Config{
		Style: StyleConfig{
			FontScale:     d.FontScale,
			TextColor:     "white",
			FontThickness: d.FontThickness,
			ShadowColor:   "green",
			ShadowOffsetX: d.ShadowOffset.X,
			ShadowOffsetY: d.ShadowOffset.Y,
			Duration:      d.Duration,
		},
		Output: OutputConfig{
			Profile: profile.Default,
			Dir:     ".",
		},
		Caption: CaptionConfig{
			Provider: types.CaptionProviderCohere,
		},
		Records: RecordsConfig{
			AcceptedTypes: []string{"Pembayaran", "Pembayaran Qris"},
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./captioner.yaml",
		"./captioner.yml",
		filepath.Join(os.Getenv("HOME"), ".captioner", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}

// OverlayConfig converts the style section into a validated overlay.Config
func (s StyleConfig) OverlayConfig() (overlay.Config, error) {
	text, err := ParseColor(s.TextColor)
	if err != nil {
		return overlay.Config{}, errors.Wrap(err, "text color")
	}
	shadow, err := ParseColor(s.ShadowColor)
	if err != nil {
		return overlay.Config{}, errors.Wrap(err, "shadow color")
	}

	cfg := overlay.Config{
		FontScale:     s.FontScale,
		TextColor:     text,
		FontThickness: s.FontThickness,
		ShadowColor:   shadow,
		ShadowOffset:  image.Pt(s.ShadowOffsetX, s.ShadowOffsetY),
		Duration:      s.Duration,
	}
	if err := cfg.Validate(); err != nil {
		return overlay.Config{}, err
	}
	return cfg, nil
}

// ResolveAPIKey returns the configured key, falling back to the provider's
// environment variable
func (c CaptionConfig) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	switch c.Provider {
	case types.CaptionProviderGroq:
		return os.Getenv("GROQ_API_KEY")
	default:
		return os.Getenv("COHERE_API_KEY")
	}
}

var namedColors = map[string]overlay.Color{
	"white":  {B: 255, G: 255, R: 255},
	"black":  {},
	"red":    {R: 255},
	"green":  {G: 128},
	"lime":   {G: 255},
	"blue":   {B: 255},
	"yellow": {G: 255, R: 255},
	"gray":   {B: 128, G: 128, R: 128},
}

// ParseColor accepts "#RRGGBB", "RRGGBB" or a color name
func ParseColor(s string) (overlay.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return overlay.Color{}, errors.Wrapf(ErrInvalidColor, "%q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return overlay.Color{}, errors.Wrapf(ErrInvalidColor, "%q", s)
	}
	return overlay.Color{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}
