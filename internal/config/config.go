package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	S3         S3Config         `mapstructure:"s3"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Log        LogConfig        `mapstructure:"log"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Onboarding OnboardingConfig `mapstructure:"onboarding"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	ReleaseMode     bool          `mapstructure:"release_mode"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// S3Config points exports at a bucket. Endpoint is empty for AWS itself; a
// bare host there is reached over https when UseSSL is set.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration. Tokens are issued by the
// identity service; this service only verifies them.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	JSON     bool   `mapstructure:"json"`
	FileName string `mapstructure:"file_name"`
	ToStdout bool   `mapstructure:"to_stdout"`
}

// RateLimitConfig limits schedule requests per user and minute. Zero disables it.
type RateLimitConfig struct {
	SchedulePerMinute int `mapstructure:"schedule_per_minute"`
}

type OnboardingConfig struct {
	DraftTTL time.Duration `mapstructure:"draft_ttl"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, jwt.secret -> JWT_SECRET
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		// Defaults and env vars only.
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}

	return config, config.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("server.release_mode", false)
	v.SetDefault("database.uri", "mongodb://localhost:27017/?replicaSet=rs0")
	v.SetDefault("database.name", "fitness_scheduler")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file_name", "")
	v.SetDefault("log.to_stdout", true)
	v.SetDefault("ratelimit.schedule_per_minute", 30)
	v.SetDefault("onboarding.draft_ttl", "72h")
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.Database.URI == "" || c.Database.Name == "" {
		return errors.New("database.uri and database.name are required")
	}
	if c.Onboarding.DraftTTL <= 0 {
		return errors.New("onboarding.draft_ttl must be positive")
	}
	return nil
}
