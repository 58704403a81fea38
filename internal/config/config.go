// Package config loads GridScout configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. Paths and tuning
// constants live here rather than in package globals, so every component
// is constructed from explicit configuration.
type Config struct {
	Dataset  DatasetConfig  `yaml:"dataset" mapstructure:"dataset"`
	Outreach OutreachConfig `yaml:"outreach" mapstructure:"outreach"`
	Map      MapConfig      `yaml:"map" mapstructure:"map"`
	Table    TableConfig    `yaml:"table" mapstructure:"table"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DatasetConfig locates the scored parcel files.
type DatasetConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	Pattern string `yaml:"pattern" mapstructure:"pattern"`
	// EPSG is the CRS assumed for formats without CRS metadata (shapefiles).
	EPSG int `yaml:"epsg" mapstructure:"epsg"`
}

// OutreachConfig configures the outreach note store.
type OutreachConfig struct {
	Driver  string `yaml:"driver" mapstructure:"driver"` // "csv" or "sqlite"
	LogPath string `yaml:"log_path" mapstructure:"log_path"`
	DBPath  string `yaml:"db_path" mapstructure:"db_path"`
}

// MapConfig holds the color ramp and viewport tuning constants. These are
// dashboard defaults, not principled derivations, so they stay configurable.
type MapConfig struct {
	RampMultiplier     float64 `yaml:"ramp_multiplier" mapstructure:"ramp_multiplier"`
	RampBlue           uint8   `yaml:"ramp_blue" mapstructure:"ramp_blue"`
	RampAlpha          uint8   `yaml:"ramp_alpha" mapstructure:"ramp_alpha"`
	ZoomPointThreshold int     `yaml:"zoom_point_threshold" mapstructure:"zoom_point_threshold"`
	NearZoom           int     `yaml:"near_zoom" mapstructure:"near_zoom"`
	FarZoom            int     `yaml:"far_zoom" mapstructure:"far_zoom"`
}

// TableConfig configures the table view.
type TableConfig struct {
	HighScoreThreshold float64 `yaml:"high_score_threshold" mapstructure:"high_score_threshold"`
}

// ServerConfig configures the dashboard API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GRIDSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dataset.dir", "data")
	v.SetDefault("dataset.pattern", "*_scored")
	v.SetDefault("dataset.epsg", 3424)
	v.SetDefault("outreach.driver", "csv")
	v.SetDefault("outreach.log_path", "data/outreach_log.csv")
	v.SetDefault("outreach.db_path", "data/outreach.db")
	v.SetDefault("map.ramp_multiplier", 12)
	v.SetDefault("map.ramp_blue", 60)
	v.SetDefault("map.ramp_alpha", 160)
	v.SetDefault("map.zoom_point_threshold", 200)
	v.SetDefault("map.near_zoom", 12)
	v.SetDefault("map.far_zoom", 9)
	v.SetDefault("table.high_score_threshold", 12)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
