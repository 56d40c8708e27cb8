package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DB        DBConfig
	Logger    LoggerConfig
	Redis     RedisConfig
	Ingest    IngestConfig
	Backup    BackupConfig
	CacheTTLs CacheTTLConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type LoggerConfig struct {
	Env   string
	Level string
	// File, when set, receives a copy of every log entry.
	File string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type IngestConfig struct {
	BatchSize         int
	Files             []string
	ErrorSampleSize   int
	MultiSelectMarker string
}

type BackupConfig struct {
	Dir    string
	Format string
}

type CacheTTLConfig struct {
	Dedup string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 1521)
	v.SetDefault("db.user", "system")
	v.SetDefault("db.name", "SZEXAM")
	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.level", "info")
	v.SetDefault("ingest.batch_size", 100)
	v.SetDefault("ingest.error_sample_size", 10)
	v.SetDefault("ingest.multi_select_marker", "多选")
	v.SetDefault("backup.dir", "backups")
	v.SetDefault("backup.format", "json")
	v.SetDefault("cache_ttls.dedup", "720h")
}

// LoadConfig reads config.yaml from the working directory or ./config, then applies
// APP_* environment overrides (APP_DB_HOST, APP_INGEST_BATCH_SIZE, ...). A missing file
// is not an error.
func LoadConfig() (*Config, error) {
	return Load(viper.New(), ".", "./config")
}

// Load reads configuration through v, searching paths for config.yaml.
func Load(v *viper.Viper, paths ...string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := &Config{
		DB: DBConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
		},
		Logger: LoggerConfig{
			Env:   v.GetString("logger.env"),
			Level: v.GetString("logger.level"),
			File:  v.GetString("logger.file"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Ingest: IngestConfig{
			BatchSize:         v.GetInt("ingest.batch_size"),
			Files:             v.GetStringSlice("ingest.files"),
			ErrorSampleSize:   v.GetInt("ingest.error_sample_size"),
			MultiSelectMarker: v.GetString("ingest.multi_select_marker"),
		},
		Backup: BackupConfig{
			Dir:    v.GetString("backup.dir"),
			Format: v.GetString("backup.format"),
		},
		CacheTTLs: CacheTTLConfig{
			Dedup: v.GetString("cache_ttls.dedup"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Ingest.BatchSize <= 0 {
		return fmt.Errorf("ingest.batch_size must be positive, got %d", c.Ingest.BatchSize)
	}
	if c.Ingest.ErrorSampleSize < 0 {
		return fmt.Errorf("ingest.error_sample_size must not be negative, got %d", c.Ingest.ErrorSampleSize)
	}
	switch c.Backup.Format {
	case "json", "sql":
	default:
		return fmt.Errorf("backup.format must be json or sql, got %q", c.Backup.Format)
	}
	return nil
}

// GetDSN builds the go-ora connection URL.
func (c *Config) GetDSN() string {
	u := url.URL{
		Scheme: "oracle",
		User:   url.UserPassword(c.DB.User, c.DB.Password),
		Host:   fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port),
		Path:   "/" + c.DB.DBName,
	}
	return u.String()
}

// ParseTTLStringOrDefault parses a duration string, falling back to def when it is empty
// or malformed.
func (c *Config) ParseTTLStringOrDefault(ttl string, def time.Duration) time.Duration {
	if ttl == "" {
		return def
	}
	d, err := time.ParseDuration(ttl)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
