package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/example/go-song-mcp/internal/elevenlabs"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	ElevenLabs ElevenLabsConfig `mapstructure:"elevenlabs"`
	Contact    ContactConfig    `mapstructure:"contact"`
	LogLevel   string           `mapstructure:"log_level"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Token           string `mapstructure:"token"`
	Transport       string `mapstructure:"transport"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

type ElevenLabsConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	Voice     string `mapstructure:"voice"`
	Model     string `mapstructure:"model"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
	Preflight bool   `mapstructure:"preflight"`
}

type ContactConfig struct {
	MyNumber string `mapstructure:"my_number"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

// Addr joins host and port into a listen address.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Timeout converts the millisecond setting into a duration.
func (c ElevenLabsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Token:           "devtoken",
			Transport:       "streamable-http",
			ShutdownTimeout: 30,
		},
		ElevenLabs: ElevenLabsConfig{
			APIKey:    "",
			BaseURL:   elevenlabs.DefaultBaseURL,
			Voice:     elevenlabs.DefaultVoiceID,
			Model:     elevenlabs.DefaultModelID,
			TimeoutMS: 30000,
			Preflight: false,
		},
		Contact: ContactConfig{
			MyNumber: "",
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("server-host", defaults.Server.Host, "HTTP bind host")
	fs.Int("server-port", defaults.Server.Port, "HTTP bind port")
	fs.String("server-token", defaults.Server.Token, "Auth token reported by the health tool")
	fs.String("server-transport", defaults.Server.Transport, "MCP transport: streamable-http, sse, or stdio")
	fs.Int("server-shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown timeout in seconds")
	fs.String("elevenlabs-api-key", defaults.ElevenLabs.APIKey, "ElevenLabs API key")
	fs.String("elevenlabs-base-url", defaults.ElevenLabs.BaseURL, "ElevenLabs API base URL")
	fs.String("elevenlabs-voice", defaults.ElevenLabs.Voice, "ElevenLabs voice ID")
	fs.String("elevenlabs-model", defaults.ElevenLabs.Model, "ElevenLabs model ID")
	fs.Int("elevenlabs-timeout-ms", defaults.ElevenLabs.TimeoutMS, "ElevenLabs request timeout in milliseconds")
	fs.Bool("elevenlabs-preflight", defaults.ElevenLabs.Preflight, "Probe the voices endpoint before each synthesis call")
	fs.String("contact-my-number", defaults.Contact.MyNumber, "Contact number returned by the validate tool")
	fs.String("log-level", defaults.LogLevel, "Log level: debug, info, warn, or error")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}
	registerAliases(v)

	v.SetEnvPrefix("SONGMCP")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	// Bare variable names are part of the process contract. The bindings
	// use the aliased flag-name keys because alias resolution rewrites
	// lookups to those before the env table is consulted.
	if err := v.BindEnv("elevenlabs-api-key", "SONGMCP_ELEVENLABS_API_KEY", "ELEVENLABS_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind api key env vars: %w", err)
	}
	if err := v.BindEnv("server-port", "SONGMCP_SERVER_PORT", "PORT"); err != nil {
		return Config{}, fmt.Errorf("bind port env vars: %w", err)
	}
	if err := v.BindEnv("server-token", "SONGMCP_SERVER_TOKEN", "TOKEN"); err != nil {
		return Config{}, fmt.Errorf("bind token env vars: %w", err)
	}
	if err := v.BindEnv("contact-my-number", "SONGMCP_CONTACT_MY_NUMBER", "MY_NUMBER"); err != nil {
		return Config{}, fmt.Errorf("bind contact env vars: %w", err)
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("songmcp")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("server.host", c.Server.Host)
	v.SetDefault("server.port", c.Server.Port)
	v.SetDefault("server.token", c.Server.Token)
	v.SetDefault("server.transport", c.Server.Transport)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("elevenlabs.api_key", c.ElevenLabs.APIKey)
	v.SetDefault("elevenlabs.base_url", c.ElevenLabs.BaseURL)
	v.SetDefault("elevenlabs.voice", c.ElevenLabs.Voice)
	v.SetDefault("elevenlabs.model", c.ElevenLabs.Model)
	v.SetDefault("elevenlabs.timeout_ms", c.ElevenLabs.TimeoutMS)
	v.SetDefault("elevenlabs.preflight", c.ElevenLabs.Preflight)
	v.SetDefault("contact.my_number", c.Contact.MyNumber)
	v.SetDefault("log_level", c.LogLevel)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("server.host", "server-host")
	v.RegisterAlias("server.port", "server-port")
	v.RegisterAlias("server.token", "server-token")
	v.RegisterAlias("server.transport", "server-transport")
	v.RegisterAlias("server.shutdown_timeout", "server-shutdown-timeout")
	v.RegisterAlias("elevenlabs.api_key", "elevenlabs-api-key")
	v.RegisterAlias("elevenlabs.base_url", "elevenlabs-base-url")
	v.RegisterAlias("elevenlabs.voice", "elevenlabs-voice")
	v.RegisterAlias("elevenlabs.model", "elevenlabs-model")
	v.RegisterAlias("elevenlabs.timeout_ms", "elevenlabs-timeout-ms")
	v.RegisterAlias("elevenlabs.preflight", "elevenlabs-preflight")
	v.RegisterAlias("contact.my_number", "contact-my-number")
	v.RegisterAlias("log_level", "log-level")
}
