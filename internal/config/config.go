// Package config loads the game server's operating parameters: the
// player-count bounds, room-code format, retention window, and round
// timing defaults that the rest of the core treats as immutable inputs.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig is the root configuration for a running server process.
type ServerConfig struct {
	Server ServerSettings `yaml:"server"`
	Round  RoundSettings  `yaml:"round"`
}

// ServerSettings governs lobby, room-code, and retention behavior.
type ServerSettings struct {
	MinPlayers       int           `yaml:"minPlayers" envconfig:"MIN_PLAYERS" default:"6"`
	MaxPlayers       int           `yaml:"maxPlayers" envconfig:"MAX_PLAYERS" default:"30"`
	RoomCodeLength   int           `yaml:"roomCodeLength" envconfig:"ROOM_CODE_LENGTH" default:"6"`
	RoomCodeAlphabet string        `yaml:"roomCodeAlphabet"`
	CodeGenAttempts  int           `yaml:"codeGenAttempts" envconfig:"CODE_GEN_ATTEMPTS" default:"100"`
	GameRetention    time.Duration `yaml:"gameRetention" envconfig:"GAME_RETENTION" default:"1h"`

	Host string `yaml:"host" envconfig:"HOST" default:"0.0.0.0"`
	Port string `yaml:"port" envconfig:"PORT" default:"8080"`

	RateLimit      float64 `yaml:"rateLimit" envconfig:"RATE_LIMIT" default:"20"`
	RateLimitBurst int     `yaml:"rateLimitBurst" envconfig:"RATE_LIMIT_BURST" default:"40"`

	EnableMetrics bool   `yaml:"enableMetrics" envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   string `yaml:"metricsPort" envconfig:"METRICS_PORT" default:"9090"`
	LogLevel      string `yaml:"logLevel" envconfig:"LOG_LEVEL" default:"info"`
}

// RoundSettings governs the timers owned by the Round Engine (§4.4).
type RoundSettings struct {
	DefaultDurations  map[int]time.Duration `yaml:"defaultDurations"`
	ParlayDuration    time.Duration         `yaml:"parlayDuration" envconfig:"PARLAY_DURATION" default:"30s"`
	TimerTick         time.Duration         `yaml:"timerTick" envconfig:"TIMER_TICK" default:"100ms"`
	TimerPublishEvery time.Duration         `yaml:"timerPublishEvery" envconfig:"TIMER_PUBLISH_EVERY" default:"1s"`
	TieLimit          int                   `yaml:"tieLimit" envconfig:"TIE_LIMIT" default:"3"`
}

const defaultRoomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// DefaultConfig returns the baseline configuration described by spec §3.2,
// §4.2, §4.4, and §4.6.
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			MinPlayers:       6,
			MaxPlayers:       30,
			RoomCodeLength:   6,
			RoomCodeAlphabet: defaultRoomCodeAlphabet,
			CodeGenAttempts:  100,
			GameRetention:    time.Hour,
			Host:             "0.0.0.0",
			Port:             "8080",
			RateLimit:        20,
			RateLimitBurst:   40,
			EnableMetrics:    true,
			MetricsPort:      "9090",
			LogLevel:         "info",
		},
		Round: RoundSettings{
			DefaultDurations: map[int]time.Duration{
				3: 8 * time.Minute,
				5: 6 * time.Minute,
			},
			ParlayDuration:    30 * time.Second,
			TimerTick:         100 * time.Millisecond,
			TimerPublishEvery: time.Second,
			TieLimit:          3,
		},
	}
}

// LoadConfig loads configuration using Viper: environment variables take
// priority over an optional YAML config file, which takes priority over
// DefaultConfig.
func LoadConfig(configPath string) (*ServerConfig, error) {
	v := viper.New()
	v.SetConfigName("server")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/tworooms")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	def := DefaultConfig()
	v.SetDefault("server.minplayers", def.Server.MinPlayers)
	v.SetDefault("server.maxplayers", def.Server.MaxPlayers)
	v.SetDefault("server.roomcodelength", def.Server.RoomCodeLength)
	v.SetDefault("server.roomcodealphabet", def.Server.RoomCodeAlphabet)
	v.SetDefault("server.codegenattempts", def.Server.CodeGenAttempts)
	v.SetDefault("server.gameretention", def.Server.GameRetention.String())
	v.SetDefault("server.host", def.Server.Host)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.ratelimit", def.Server.RateLimit)
	v.SetDefault("server.ratelimitburst", def.Server.RateLimitBurst)
	v.SetDefault("server.enablemetrics", def.Server.EnableMetrics)
	v.SetDefault("server.metricsport", def.Server.MetricsPort)
	v.SetDefault("server.loglevel", def.Server.LogLevel)
	v.SetDefault("round.parlayduration", def.Round.ParlayDuration.String())
	v.SetDefault("round.timertick", def.Round.TimerTick.String())
	v.SetDefault("round.timerpublishevery", def.Round.TimerPublishEvery.String())
	v.SetDefault("round.tielimit", def.Round.TieLimit)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !strings.Contains(err.Error(), "no such file or directory") {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	cfg := &ServerConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Round.DefaultDurations == nil {
		cfg.Round.DefaultDurations = def.Round.DefaultDurations
	}
	if cfg.Server.RoomCodeAlphabet == "" {
		cfg.Server.RoomCodeAlphabet = defaultRoomCodeAlphabet
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks internal consistency of the configuration.
func (c *ServerConfig) Validate() error {
	if c.Server.MinPlayers < 1 {
		return fmt.Errorf("minPlayers must be at least 1")
	}
	if c.Server.MaxPlayers < c.Server.MinPlayers {
		return fmt.Errorf("maxPlayers cannot be less than minPlayers")
	}
	if c.Server.RoomCodeLength < 4 {
		return fmt.Errorf("roomCodeLength must be at least 4")
	}
	if c.Server.CodeGenAttempts < 1 {
		return fmt.Errorf("codeGenAttempts must be at least 1")
	}
	if len(c.Server.RoomCodeAlphabet) < 2 {
		return fmt.Errorf("roomCodeAlphabet must contain at least 2 characters")
	}
	for _, n := range []int{3, 5} {
		if _, ok := c.Round.DefaultDurations[n]; !ok {
			return fmt.Errorf("round.defaultDurations missing entry for totalRounds=%d", n)
		}
	}
	if c.Round.ParlayDuration <= 0 {
		return fmt.Errorf("round.parlayDuration must be positive")
	}
	if c.Round.TieLimit < 1 {
		return fmt.Errorf("round.tieLimit must be at least 1")
	}
	return nil
}

// DurationFor returns the configured per-round duration for a game of
// totalRounds rounds, per spec §3.2's roundDurations.
func (c *ServerConfig) DurationFor(totalRounds int) time.Duration {
	if d, ok := c.Round.DefaultDurations[totalRounds]; ok {
		return d
	}
	return 5 * time.Minute
}
