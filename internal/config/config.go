package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Debug     bool          `yaml:"debug" env:"DEBUG"`
	Limiter   Limiter       `yaml:"limiter"`
	AppID     int32         `yaml:"app_id" env:"APP_ID"`
	AppSecret string        `yaml:"app_secret" env:"APP_SECRET" env-required:"true"`
	Server    Server        `yaml:"server"`
	DB        DB            `yaml:"db"`
	Clients   ClientsConfig `yaml:"clients"`
	TMDB      TMDB          `yaml:"tmdb"`
	CORS      CORS          `yaml:"cors"`
	Workers   Workers       `yaml:"workers"`
	Log       Log           `yaml:"log"`
}

type Limiter struct {
	Enabled bool    `yaml:"enabled"`
	Rps     float64 `yaml:"rps" env-default:"20"`
	Burst   int     `yaml:"burst" env-default:"5"`
}

type Client struct {
	Addr         string        `yaml:"addr" env-required:"true"`
	RetryTimeout time.Duration `yaml:"retry_timeout" env-default:"1s"`
	RetriesCount int           `yaml:"retries_count" env-default:"1"`
}

type ClientsConfig struct {
	SSO Client `yaml:"sso"`
}

type Server struct {
	Port string `yaml:"port" env:"PORT" env-default:"8000"`
	Host string `yaml:"host" env-default:"localhost"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"20s"`
}

type DB struct {
	Dsn             string        `yaml:"dsn" env:"DB_DSN" env-required:"true"`
	MaxConns        int           `yaml:"max_conns" env-default:"25"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env-default:"10m"`
}

// TMDB holds everything the upstream catalog client needs. It is passed to
// the client constructor explicitly.
type TMDB struct {
	BaseURL       string        `yaml:"base_url" env-default:"https://api.themoviedb.org/3"`
	ImageBaseURL  string        `yaml:"image_base_url" env-default:"https://image.tmdb.org/t/p/w500"`
	APIKey        string        `yaml:"api_key" env:"TMDB_API_KEY" env-required:"true"`
	Timeout       time.Duration `yaml:"timeout" env-default:"5s"`
	RetryAttempts uint          `yaml:"retry_attempts" env-default:"2"`
	RetryDelay    time.Duration `yaml:"retry_delay" env-default:"200ms"`
	CacheTTL      time.Duration `yaml:"cache_ttl" env-default:"2m"`
	CacheSize     int           `yaml:"cache_size" env-default:"256"`
	Breaker       Breaker       `yaml:"breaker"`
}

type Breaker struct {
	MaxRequests  uint32        `yaml:"max_requests" env-default:"3"`
	Interval     time.Duration `yaml:"interval" env-default:"1m"`
	Timeout      time.Duration `yaml:"timeout" env-default:"30s"`
	MinRequests  uint32        `yaml:"min_requests" env-default:"10"`
	FailureRatio float64       `yaml:"failure_ratio" env-default:"0.6"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ORIGINS" env-default:"http://localhost:3000"`
	MaxAge         int      `yaml:"max_age" env-default:"300"`
}

type Workers struct {
	Count     int `yaml:"count" env-default:"4"`
	QueueSize int `yaml:"queue_size" env-default:"100"`
}

type Log struct {
	// File enables rotated file output in addition to stdout.
	File       string `yaml:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env-default:"50"`
	MaxBackups int    `yaml:"max_backups" env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env-default:"28"`
}

func MustLoad(configPath string) *Config {
	var cfg Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic(fmt.Errorf("config file %s not found", configPath))
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic(err)
	}

	return &cfg
}
