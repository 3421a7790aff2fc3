package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Env  string
	Port string

	DatabaseURL string

	JWT    JWT
	Bcrypt struct {
		Cost int
	}

	Redis Redis
	AMQP  AMQP

	CORSOrigin string

	LogLevel  string
	LogFormat string

	OTelEndpoint string

	RateLimit RateLimit
}

type JWT struct {
	Secret     string
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type AMQP struct {
	URL      string
	Exchange string
}

type RateLimit struct {
	AuthMax  int
	WriteMax int
	Window   time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("port", "8080")
	v.SetDefault("jwt.algorithm", "HS256")
	v.SetDefault("jwt.access_ttl", 30*time.Minute)
	v.SetDefault("jwt.refresh_ttl", 7*24*time.Hour)
	v.SetDefault("bcrypt.cost", 10)
	v.SetDefault("redis.db", 0)
	v.SetDefault("amqp.exchange", "fintrack")
	v.SetDefault("cors.origin", "*")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("ratelimit.auth_max", 10)
	v.SetDefault("ratelimit.write_max", 60)
	v.SetDefault("ratelimit.window", time.Minute)
}

// Flags registers the command line overrides shared by the binaries.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("port", "", "HTTP listen port")
	fs.String("database.url", "", "PostgreSQL connection string")
	fs.String("log.level", "", "Log level (trace, debug, info, warn, error)")
	fs.String("log.format", "", "Log format (json, console)")
	fs.String("env-file", ".env", "Optional dotenv file")
	return fs
}

// Load reads configuration from flags, the environment and an optional
// dotenv file, in that order of precedence.
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	envFile, _ := fs.GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "env-file" {
			return
		}
		// Only explicitly set flags should shadow the environment.
		if f.Changed {
			if err := v.BindPFlag(f.Name, f); err != nil {
				bindErr = err
			}
		}
	})
	if bindErr != nil {
		return nil, fmt.Errorf("bind flags: %w", bindErr)
	}

	cfg := &Config{
		Env:         strings.ToLower(v.GetString("env")),
		Port:        v.GetString("port"),
		DatabaseURL: v.GetString("database.url"),
		JWT: JWT{
			Secret:     v.GetString("jwt.secret"),
			Algorithm:  strings.ToUpper(v.GetString("jwt.algorithm")),
			AccessTTL:  v.GetDuration("jwt.access_ttl"),
			RefreshTTL: v.GetDuration("jwt.refresh_ttl"),
		},
		Redis: Redis{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		AMQP: AMQP{
			URL:      v.GetString("amqp.url"),
			Exchange: v.GetString("amqp.exchange"),
		},
		CORSOrigin:   v.GetString("cors.origin"),
		LogLevel:     strings.ToLower(v.GetString("log.level")),
		LogFormat:    strings.ToLower(v.GetString("log.format")),
		OTelEndpoint: v.GetString("otel.endpoint"),
		RateLimit: RateLimit{
			AuthMax:  v.GetInt("ratelimit.auth_max"),
			WriteMax: v.GetInt("ratelimit.write_max"),
			Window:   v.GetDuration("ratelimit.window"),
		},
	}
	cfg.Bcrypt.Cost = v.GetInt("bcrypt.cost")

	return cfg, nil
}

// Validate validates the configuration and returns an error listing every problem found.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is not set")
	} else if u, err := url.Parse(c.DatabaseURL); err != nil {
		problems = append(problems, fmt.Sprintf("invalid DATABASE_URL: %v", err))
	} else if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		problems = append(problems, fmt.Sprintf("invalid DATABASE_URL scheme '%s': must be postgres or postgresql", u.Scheme))
	}

	problems = append(problems, c.validateJWT()...)

	if c.Bcrypt.Cost < 4 || c.Bcrypt.Cost > 31 {
		problems = append(problems, fmt.Sprintf("invalid bcrypt cost %d: must be between 4 and 31", c.Bcrypt.Cost))
	}

	if c.AMQP.URL != "" {
		if u, err := url.Parse(c.AMQP.URL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL: %v", err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQP.Exchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be json or console", c.LogFormat))
	}

	if c.RateLimit.AuthMax < 1 || c.RateLimit.WriteMax < 1 {
		problems = append(problems, "rate limits must be at least 1")
	}
	if c.RateLimit.Window < time.Second {
		problems = append(problems, fmt.Sprintf("invalid rate limit window %v: must be at least 1 second", c.RateLimit.Window))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func (c *Config) validateJWT() []string {
	var problems []string
	if strings.TrimSpace(c.JWT.Secret) == "" {
		problems = append(problems, "JWT_SECRET is not set")
	} else if c.IsProduction() && len(c.JWT.Secret) < 32 {
		problems = append(problems, "JWT_SECRET must be at least 32 bytes in production")
	}
	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		problems = append(problems, fmt.Sprintf("invalid JWT algorithm '%s': must be HS256, HS384 or HS512", c.JWT.Algorithm))
	}
	if c.JWT.AccessTTL <= 0 {
		problems = append(problems, "access token TTL must be positive")
	}
	if c.JWT.RefreshTTL <= c.JWT.AccessTTL {
		problems = append(problems, "refresh token TTL must be longer than the access token TTL")
	}
	return problems
}

// IsProduction reports whether ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
