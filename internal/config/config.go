package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SecurityConfig struct {
	SessionTTL       time.Duration
	SessionCookie    string
	ResetTokenSecret string
	ResetTokenTTL    time.Duration
}

type AttendanceConfig struct {
	// Timezone pins the calendar-date policy for streaks. Every caller that
	// truncates a check-in timestamp to a date must go through this location.
	Timezone          string
	MaxSessionMinutes int
}

type AIConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Security         SecurityConfig
	Attendance       AttendanceConfig
	AI               AIConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("GYMORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("security.sessionttl", "168h") // 7 days
	v.SetDefault("security.sessioncookie", "gymora_session")
	v.SetDefault("security.resettokenttl", "30m")

	v.SetDefault("attendance.timezone", "UTC")
	v.SetDefault("attendance.maxsessionminutes", 180)

	v.SetDefault("ai.baseurl", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.maxtokens", 1024)
	v.SetDefault("ai.timeout", "30s")
}
