package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	PlaceholderSupabaseURL = "https://your-project.supabase.co"
	PlaceholderAnonKey     = "your-anon-key"
)

type Configs struct {
	Env string `toml:"env"`

	Log       LogConfigs      `toml:"log"`
	Storage   StorageConfigs  `toml:"storage"`
	Database  DatabaseConfigs `toml:"database"`
	Redis     RedisConfigs    `toml:"redis"`
	Supabase  SupabaseConfigs `toml:"supabase"`
	Scoring   ScoringConfigs  `toml:"scoring"`
	Sync      SyncConfigs     `toml:"sync"`
	Reminder  ReminderConfigs `toml:"reminder"`
	ApiServer ServerConfigs   `toml:"api_server"`
	Auth      AuthConfigs     `toml:"auth"`
}

func (c Configs) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

type LogConfigs struct {
	Level string `toml:"level"`
}

type StorageConfigs struct {
	// Driver is one of sqlite, mysql or redis.
	Driver string `toml:"driver"`
}

type DatabaseConfigs struct {
	SQLitePath string `toml:"sqlite_path"`

	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type SupabaseConfigs struct {
	URL            string   `toml:"url"`
	AnonKey        string   `toml:"anon_key"`
	ServiceRoleKey string   `toml:"service_role_key"`
	ProbeTimeout   Duration `toml:"probe_timeout"`
	RequestTimeout Duration `toml:"request_timeout"`
	ResetRedirect  string   `toml:"reset_redirect"`
}

// IsConfigured returns false for empty or placeholder credentials, which
// forces the local fallback mode without touching the network.
func (s SupabaseConfigs) IsConfigured() bool {
	if s.URL == "" || s.AnonKey == "" {
		return false
	}

	return s.URL != PlaceholderSupabaseURL && s.AnonKey != PlaceholderAnonKey
}

type ScoringConfigs struct {
	Endpoints []string `toml:"endpoints"`
}

type SyncConfigs struct {
	Workers    int      `toml:"workers"`
	QueueSize  int      `toml:"queue_size"`
	JobTimeout Duration `toml:"job_timeout"`
	RateLimit  float64  `toml:"rate_limit"`
	RateBurst  int      `toml:"rate_burst"`
	Interval   Duration `toml:"interval"`
}

type ReminderConfigs struct {
	Enabled bool `toml:"enabled"`
}

type ServerConfigs struct {
	Host           string   `toml:"host"`
	Port           string   `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

type AuthConfigs struct {
	AllowDemoLogin bool `toml:"allow_demo_login"`
}

// DemoLoginEnabled reports whether the fixed demonstration credential is
// accepted. It is never enabled in production.
func (c Configs) DemoLoginEnabled() bool {
	return c.Auth.AllowDemoLogin && !c.IsProduction()
}

type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func Default() Configs {
	return Configs{
		Env:     "development",
		Log:     LogConfigs{Level: "INFO"},
		Storage: StorageConfigs{Driver: "sqlite"},
		Database: DatabaseConfigs{
			SQLitePath: "ecohabit.db",
		},
		Redis: RedisConfigs{Addr: "localhost:6379"},
		Supabase: SupabaseConfigs{
			URL:            PlaceholderSupabaseURL,
			AnonKey:        PlaceholderAnonKey,
			ProbeTimeout:   Duration{4 * time.Second},
			RequestTimeout: Duration{15 * time.Second},
		},
		Sync: SyncConfigs{
			Workers:    2,
			QueueSize:  64,
			JobTimeout: Duration{20 * time.Second},
			RateLimit:  5,
			RateBurst:  5,
			Interval:   Duration{15 * time.Minute},
		},
		Reminder:  ReminderConfigs{Enabled: true},
		ApiServer: ServerConfigs{Port: "8080", AllowedOrigins: []string{"*"}},
		Auth:      AuthConfigs{AllowDemoLogin: true},
	}
}

// Load reads defaults, then the TOML file at path (if any), then .env and
// environment variables.
func Load(path string) (*Configs, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("cannot decode config file %s: %w", path, err)
		}
	}

	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyEnv(cfg *Configs) error {
	setString(&cfg.Env, "ECOHABIT_ENV")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setString(&cfg.Database.SQLitePath, "SQLITE_PATH")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.Database, "DB_NAME")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Supabase.URL, "SUPABASE_URL")
	setString(&cfg.Supabase.AnonKey, "SUPABASE_ANON_KEY")
	setString(&cfg.Supabase.ServiceRoleKey, "SUPABASE_SERVICE_ROLE_KEY")
	setString(&cfg.ApiServer.Port, "API_PORT")

	if v, ok := os.LookupEnv("SCORING_API_URL"); ok && v != "" {
		cfg.Scoring.Endpoints = strings.Split(v, ",")
	}

	if v, ok := os.LookupEnv("ALLOW_DEMO_LOGIN"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid ALLOW_DEMO_LOGIN: %w", err)
		}
		cfg.Auth.AllowDemoLogin = b
	}

	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
