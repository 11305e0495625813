package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/yassinebenk/bg-v2/model"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Rembg    RembgConfig    `mapstructure:"rembg"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Render   RenderConfig   `mapstructure:"render"`
	Mockups  MockupsConfig  `mapstructure:"mockups"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type UploadConfig struct {
	MaxSize      int64    `mapstructure:"max_size"`
	AllowedTypes []string `mapstructure:"allowed_types"`
}

// RembgConfig points the pipeline at an external background-removal
// endpoint. An empty endpoint selects the passthrough remover, i.e.
// the uploaded image is assumed to already carry a useful alpha channel.
type RembgConfig struct {
	Endpoint     string        `mapstructure:"endpoint"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxDimension int           `mapstructure:"max_dimension"`
}

type PipelineConfig struct {
	MaxConcurrent  int `mapstructure:"max_concurrent"`
	QueueTimeout   int `mapstructure:"queue_timeout"`
	ProcessTimeout int `mapstructure:"process_timeout"`
}

// RenderConfig carries the compositing policy constants. The defaults
// match the reference mockup assets: a near-white (>240) blank frame
// interior, 300 DPI margins and a 96 PPI screen assumption.
type RenderConfig struct {
	FrameThreshold int     `mapstructure:"frame_threshold"`
	DPI            int     `mapstructure:"dpi"`
	PPI            int     `mapstructure:"ppi"`
	MarginInch     float64 `mapstructure:"margin_inch"`
}

type MockupsConfig struct {
	Dir        string   `mapstructure:"dir"`
	Rescan     string   `mapstructure:"rescan"`
	Vertical   []string `mapstructure:"vertical"`
	Horizontal []string `mapstructure:"horizontal"`
}

// Catalog builds the immutable orientation -> candidates mapping used
// by the selector. Order is preserved: earlier entries win ratio ties.
func (m *MockupsConfig) Catalog() model.Catalog {
	return model.Catalog{
		model.OrientationVertical:   m.Vertical,
		model.OrientationHorizontal: m.Horizontal,
	}
}

// Load reads configuration from a YAML file.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// New loads configuration from the given path, falling back to the
// built-in defaults when the file is missing or unreadable.
func New(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return getDefaultConfig()
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":5100")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 60*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", time.Hour)

	v.SetDefault("upload.max_size", 10*1024*1024)
	v.SetDefault("upload.allowed_types", []string{"jpg", "jpeg", "png", "webp"})

	v.SetDefault("rembg.endpoint", "")
	v.SetDefault("rembg.timeout", 120*time.Second)
	v.SetDefault("rembg.max_dimension", 2048)

	v.SetDefault("pipeline.max_concurrent", 3)
	v.SetDefault("pipeline.queue_timeout", 30)
	v.SetDefault("pipeline.process_timeout", 120)

	v.SetDefault("render.frame_threshold", 240)
	v.SetDefault("render.dpi", 300)
	v.SetDefault("render.ppi", 96)
	v.SetDefault("render.margin_inch", 0.01)

	v.SetDefault("mockups.dir", "static/mockups")
	v.SetDefault("mockups.rescan", "")
	v.SetDefault("mockups.vertical", []string{
		"static/mockups/mockup_vertical_small.jpeg",
		"static/mockups/mockup_vertical_large.jpeg",
	})
	v.SetDefault("mockups.horizontal", []string{
		"static/mockups/mockup_horizontal_large.png",
	})
}

func getDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":5100",
			Mode:         "debug",
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			TTL:      time.Hour,
		},
		Upload: UploadConfig{
			MaxSize:      10 * 1024 * 1024,
			AllowedTypes: []string{"jpg", "jpeg", "png", "webp"},
		},
		Rembg: RembgConfig{
			Endpoint:     "",
			Timeout:      120 * time.Second,
			MaxDimension: 2048,
		},
		Pipeline: PipelineConfig{
			MaxConcurrent:  3,
			QueueTimeout:   30,
			ProcessTimeout: 120,
		},
		Render: RenderConfig{
			FrameThreshold: 240,
			DPI:            300,
			PPI:            96,
			MarginInch:     0.01,
		},
		Mockups: MockupsConfig{
			Dir:    "static/mockups",
			Rescan: "",
			Vertical: []string{
				"static/mockups/mockup_vertical_small.jpeg",
				"static/mockups/mockup_vertical_large.jpeg",
			},
			Horizontal: []string{
				"static/mockups/mockup_horizontal_large.png",
			},
		},
	}
}
