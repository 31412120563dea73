package config

import (
	"fmt"
	"time"
)

// Config represents the global configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Amazon    AmazonConfig    `mapstructure:"amazon"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Facebook  FacebookConfig  `mapstructure:"facebook"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Reconcile ReconcileConfig `mapstructure:"reconcile"`
	Sweep     SweepConfig     `mapstructure:"sweep"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug, release, test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// AmazonConfig represents the PA-API endpoint configuration
type AmazonConfig struct {
	Host        string  `mapstructure:"host"`
	Region      string  `mapstructure:"region"`
	Path        string  `mapstructure:"path"`
	Marketplace string  `mapstructure:"marketplace"`
	Language    string  `mapstructure:"language"`
	RatePerSec  float64 `mapstructure:"rate_per_sec"`
}

// TelegramConfig represents the bot API endpoint configuration
type TelegramConfig struct {
	BaseURL    string  `mapstructure:"base_url"`
	RatePerSec float64 `mapstructure:"rate_per_sec"`
}

// FacebookConfig represents the Graph API endpoint configuration
type FacebookConfig struct {
	GraphURL string `mapstructure:"graph_url"`
}

// StorageConfig represents the managed banner storage configuration
type StorageConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	Bucket     string `mapstructure:"bucket"`
	ServiceKey string `mapstructure:"service_key"`
}

// ReconcileConfig represents price reconciliation tuning
type ReconcileConfig struct {
	ProductLimit int `mapstructure:"product_limit"` // stalest products per tenant per run
	ChunkSize    int `mapstructure:"chunk_size"`    // PA-API GetItems hard cap is 10
}

// SweepConfig represents expiry sweeping tuning
type SweepConfig struct {
	ExpiryAge time.Duration `mapstructure:"expiry_age"`
}

// GetAddr returns the server address
func (s *ServerConfig) GetAddr() string {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GetDSN returns the database DSN
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=10s&readTimeout=30s&writeTimeout=30s",
		d.Username, d.Password, d.Host, d.Port, d.DBName)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Username == "" {
		return fmt.Errorf("database username is required")
	}

	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Reconcile.ChunkSize > 10 {
		return fmt.Errorf("reconcile chunk size %d exceeds the GetItems limit of 10", c.Reconcile.ChunkSize)
	}

	return nil
}

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 120 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}

	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 50
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 10
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = time.Hour
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}

	if c.Amazon.Host == "" {
		c.Amazon.Host = "webservices.amazon.eg"
	}
	if c.Amazon.Region == "" {
		c.Amazon.Region = "eu-west-1"
	}
	if c.Amazon.Path == "" {
		c.Amazon.Path = "/paapi5/getitems"
	}
	if c.Amazon.Marketplace == "" {
		c.Amazon.Marketplace = "www.amazon.eg"
	}
	if c.Amazon.Language == "" {
		c.Amazon.Language = "ar_AE"
	}
	if c.Amazon.RatePerSec == 0 {
		c.Amazon.RatePerSec = 1
	}

	if c.Telegram.BaseURL == "" {
		c.Telegram.BaseURL = "https://api.telegram.org"
	}
	if c.Telegram.RatePerSec == 0 {
		c.Telegram.RatePerSec = 20
	}

	if c.Facebook.GraphURL == "" {
		c.Facebook.GraphURL = "https://graph.facebook.com/v19.0"
	}

	if c.Storage.Bucket == "" {
		c.Storage.Bucket = "banners"
	}

	if c.Reconcile.ProductLimit == 0 {
		c.Reconcile.ProductLimit = 20
	}
	if c.Reconcile.ChunkSize == 0 {
		c.Reconcile.ChunkSize = 10
	}

	if c.Sweep.ExpiryAge == 0 {
		c.Sweep.ExpiryAge = 36 * time.Hour
	}
}
