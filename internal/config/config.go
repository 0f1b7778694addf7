// Package config loads the settings of the zugferd CLI and server.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"
	"time"

	playground "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rezonia/zugferd/internal/logger"
	"github.com/rezonia/zugferd/internal/model"
	"github.com/rezonia/zugferd/internal/profile"
	"github.com/rezonia/zugferd/internal/validator"
)

// EnvPrefix prefixes every environment override, e.g. ZUGFERD_SERVER_ADDRESS
const EnvPrefix = "ZUGFERD"

// Config holds all application configuration
type Config struct {
	Codec  CodecConfig  `mapstructure:"codec"`
	Server ServerConfig `mapstructure:"server"`
	Logger LoggerConfig `mapstructure:"logger"`
}

// CodecConfig holds the defaults applied when writing documents
type CodecConfig struct {
	Version       string `mapstructure:"version"`
	Profile       string `mapstructure:"profile"`
	TaxTypePolicy string `mapstructure:"tax_type_policy"`
	Indent        int    `mapstructure:"indent" validate:"gte=0"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Address        string        `mapstructure:"address" validate:"required"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gte=0"`
	MaxBodySize    int64         `mapstructure:"max_body_size" validate:"gt=0"`
	Debug          bool          `mapstructure:"debug"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=json console"`
	TimeFormat string `mapstructure:"time_format"`
	Output     string `mapstructure:"output"`
}

// Load reads .env, the optional YAML file at path and ZUGFERD_* environment variables.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration with every default applied
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	// Codec defaults
	v.SetDefault("codec.version", string(model.Version21))
	v.SetDefault("codec.profile", string(profile.Default(model.Version21)))
	v.SetDefault("codec.tax_type_policy", validator.TaxTypeReject.String())
	v.SetDefault("codec.indent", 2)

	// Server defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.max_body_size", 20<<20)
	v.SetDefault("server.debug", false)

	// Logger defaults
	def := logger.DefaultConfig()
	v.SetDefault("logger.level", def.Level)
	v.SetDefault("logger.format", def.Format)
	v.SetDefault("logger.time_format", def.TimeFormat)
	v.SetDefault("logger.output", def.Output)
}

// Validate checks field ranges, then the codec defaults against the capability table
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		var fieldErrs playground.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q check (value %v)",
				strings.TrimPrefix(fe.Namespace(), "Config."), fe.ActualTag(), fe.Value()))
		}
		return errors.New(strings.Join(msgs, "; "))
	}

	version, err := c.Codec.TargetVersion()
	if err != nil {
		return err
	}
	p, err := c.Codec.TargetProfile()
	if err != nil {
		return err
	}
	if _, err := profile.Lookup(version, p); err != nil {
		return fmt.Errorf("codec: %w", err)
	}
	if _, err := c.Codec.Policy(); err != nil {
		return fmt.Errorf("codec: %w", err)
	}
	return nil
}

// structValidator reports fields by their config key
var structValidator = func() *playground.Validate {
	v := playground.New(playground.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// TargetVersion parses the configured version
func (c CodecConfig) TargetVersion() (model.Version, error) {
	v, ok := model.ParseVersion(c.Version)
	if !ok {
		return "", fmt.Errorf("codec.version: unknown version %q", c.Version)
	}
	return v, nil
}

// TargetProfile parses the configured profile
func (c CodecConfig) TargetProfile() (model.Profile, error) {
	p, ok := model.ParseProfile(c.Profile)
	if !ok {
		return model.ProfileUnknown, fmt.Errorf("codec.profile: unknown profile %q", c.Profile)
	}
	return p, nil
}

// Policy parses the configured tax type policy
func (c CodecConfig) Policy() (validator.TaxTypePolicy, error) {
	return validator.ParseTaxTypePolicy(c.TaxTypePolicy)
}

// GetLoggerConfig returns the logger configuration
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.Logger.Level,
		Format:     c.Logger.Format,
		TimeFormat: c.Logger.TimeFormat,
		Output:     c.Logger.Output,
	}
}
