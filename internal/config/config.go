package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConf struct {
	Name           string `mapstructure:"name"`
	Version        string `mapstructure:"version"`
	Env            string `mapstructure:"env"`
	Port           int    `mapstructure:"port"`
	ShutdownSecond int    `mapstructure:"shutdown_seconds"`
	ReadSeconds    int    `mapstructure:"read_timeout_seconds"`
	WriteSeconds   int    `mapstructure:"write_timeout_seconds"`
	BodyLimitMB    int    `mapstructure:"body_limit_mb"`
	DefaultUser    string `mapstructure:"default_user"`
	DefaultLimit   int64  `mapstructure:"default_limit"`
}

type MongoConf struct {
	URI               string `mapstructure:"uri"`
	Database          string `mapstructure:"database"`
	Collection        string `mapstructure:"collection"`
	VideoBucket       string `mapstructure:"video_bucket"`
	VideoMetaColl     string `mapstructure:"video_meta_collection"`
	ConnectTimeoutSec int    `mapstructure:"connect_timeout_seconds"`
	ConnectRetrySec   int    `mapstructure:"connect_retry_seconds"`
}

// StorageConf selects the Media Store backend: "gridfs" (default) or "s3".
type StorageConf struct {
	Backend string `mapstructure:"backend"`
}

type AWSConf struct {
	Region   string `mapstructure:"region"`
	Bucket   string `mapstructure:"bucket"`
	Endpoint string `mapstructure:"endpoint"`
}

type RedisConf struct {
	Addr        string `mapstructure:"addr"`
	Password    string `mapstructure:"password"`
	DB          int    `mapstructure:"db"`
	Prefix      string `mapstructure:"prefix"`
	RateLimit   int    `mapstructure:"rate_limit"`
	RateWindowS int    `mapstructure:"rate_window_seconds"`
}

type KafkaConf struct {
	Brokers            []string `mapstructure:"brokers"`
	TopicSampleCreated string   `mapstructure:"topic_sample_created"`
	TopicVideoUploaded string   `mapstructure:"topic_video_uploaded"`
}

type Config struct {
	App     AppConf     `mapstructure:"app"`
	Mongo   MongoConf   `mapstructure:"mongodb"`
	Storage StorageConf `mapstructure:"storage"`
	AWS     AWSConf     `mapstructure:"aws"`
	Redis   RedisConf   `mapstructure:"redis"`
	Kafka   KafkaConf   `mapstructure:"kafka"`
	Log     struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	// derived
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ConnectTimeout  time.Duration
	ConnectRetry    time.Duration
	RateWindow      time.Duration
	BodyLimit       int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Experience Sampling API")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.env", "production")
	v.SetDefault("app.port", 8000)
	v.SetDefault("app.shutdown_seconds", 15)
	v.SetDefault("app.read_timeout_seconds", 60)
	v.SetDefault("app.write_timeout_seconds", 60)
	v.SetDefault("app.body_limit_mb", 4096)
	v.SetDefault("app.default_user", "default_user")
	v.SetDefault("app.default_limit", 100)

	v.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb.database", "lai")
	v.SetDefault("mongodb.collection", "samples")
	v.SetDefault("mongodb.video_bucket", "videos")
	v.SetDefault("mongodb.video_meta_collection", "videos_meta")
	v.SetDefault("mongodb.connect_timeout_seconds", 10)
	v.SetDefault("mongodb.connect_retry_seconds", 30)

	v.SetDefault("storage.backend", "gridfs")

	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.bucket", "")
	v.SetDefault("aws.endpoint", "")

	// env overrides only reach keys viper already knows about
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "sampling:ratelimit")
	v.SetDefault("redis.rate_limit", 120)
	v.SetDefault("redis.rate_window_seconds", 60)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic_sample_created", "sample.created")
	v.SetDefault("kafka.topic_video_uploaded", "video.uploaded")

	v.SetDefault("log.level", "info")
}

// Load reads path (optional) and the environment. MONGODB_URI overrides
// mongodb.uri, APP_PORT overrides app.port and so on.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	cfg.ShutdownTimeout = time.Duration(cfg.App.ShutdownSecond) * time.Second
	cfg.ReadTimeout = time.Duration(cfg.App.ReadSeconds) * time.Second
	cfg.WriteTimeout = time.Duration(cfg.App.WriteSeconds) * time.Second
	cfg.ConnectTimeout = time.Duration(cfg.Mongo.ConnectTimeoutSec) * time.Second
	cfg.ConnectRetry = time.Duration(cfg.Mongo.ConnectRetrySec) * time.Second
	cfg.RateWindow = time.Duration(cfg.Redis.RateWindowS) * time.Second
	cfg.BodyLimit = cfg.App.BodyLimitMB * 1024 * 1024
	return &cfg, nil
}

func (c *Config) Development() bool {
	return c.App.Env == "development"
}

func validate(cfg *Config) error {
	if cfg.App.Port <= 0 {
		return errors.New("app.port is missing or invalid")
	}
	if cfg.Mongo.URI == "" {
		return errors.New("mongodb.uri is empty (set MONGODB_URI)")
	}
	if cfg.Mongo.Database == "" {
		return errors.New("mongodb.database is missing")
	}
	if cfg.App.DefaultLimit < 1 {
		return errors.New("app.default_limit must be positive")
	}
	switch cfg.Storage.Backend {
	case "gridfs":
	case "s3":
		if cfg.AWS.Bucket == "" {
			return errors.New("aws.bucket required for storage.backend s3")
		}
	default:
		return fmt.Errorf("unknown storage.backend %q (use gridfs or s3)", cfg.Storage.Backend)
	}
	return nil
}
