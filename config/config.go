package config

import (
	"errors"
	"log/slog"

	"github.com/spf13/viper"
)

type Config struct {
	Server     Server
	Bun        BunConfig
	Redis      RedisConfig
	JWT        JWT
	Retention  Retention
	Blob       Blob
	LoggerMode LoggerMode
}

type Server struct {
	Port        string
	Environment string

	// Bounds the graceful shutdown sequence; past it the process force-exits.
	ShutdownGraceSeconds int
}

type BunConfig struct {
	DSN string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// Bounds the startup connection attempt. A cache that cannot be reached
	// within it leaves presence features disabled, not the process dead.
	DialTimeoutMs int
}

type JWT struct {
	Secret    string
	ExpiredIn int
}

type Retention struct {
	SweepIntervalMs int
	WindowHours     int
}

type Blob struct {
	BaseDir    string
	PublicURL  string
	PathPrefix string
}

type LoggerMode struct {
	Development bool
	Prod        bool
	Level       string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()

	v.SetConfigName(filename)
	v.SetConfigType("yaml")
	v.AddConfigPath("config")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdowngraceseconds", 15)
	v.SetDefault("redis.dialtimeoutms", 3000)
	v.SetDefault("retention.sweepintervalms", 3600000)
	v.SetDefault("retention.windowhours", 8)
	v.SetDefault("blob.pathprefix", "/uploads/")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	err := v.Unmarshal(&c)
	if err != nil {
		slog.Error("Unable to unmarshal config", "err", err)
		return nil, err
	}
	return &c, nil
}
