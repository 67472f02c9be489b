package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig is everything the servers read from the environment
type AppConfig struct {
	Env  string
	Port string

	MongoURI string
	DBName   string

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	SnapshotPrefix string

	JWTSecret string

	FirebaseProjectID         string
	FirebaseCredentialsFile   string
	FirebaseCredentialsBase64 string

	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPass        string
	MailFrom        string
	RestaurantEmail string
	MailRetries     int
	MailRetryDelay  time.Duration
	MailRelayPort   string

	NotificationDuration time.Duration
	NotificationMax      int
	NotificationSpacing  int
	NotificationExit     time.Duration
	ReminderInterval     time.Duration
	SessionIdleTimeout   time.Duration

	CORSOrigins []string
}

// SetDefaults registers the fallback value of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("port", "8080")
	v.SetDefault("mongo_uri", "")
	v.SetDefault("db_name", "savora")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("snapshot_prefix", "savora:")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("firebase_project_id", "savora-app")
	v.SetDefault("google_application_credentials", "")
	v.SetDefault("firebase_credentials_base64", "")
	v.SetDefault("smtp_host", "")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("smtp_user", "")
	v.SetDefault("smtp_pass", "")
	v.SetDefault("mail_from", "")
	v.SetDefault("restaurant_email", "")
	v.SetDefault("mail_retries", 3)
	v.SetDefault("mail_retry_delay", "1s")
	v.SetDefault("mail_relay_port", "3001")
	v.SetDefault("notification_duration", "5s")
	v.SetDefault("notification_max_visible", 0)
	v.SetDefault("notification_stack_spacing", 80)
	v.SetDefault("notification_exit_delay", "0s")
	v.SetDefault("reminder_interval", "24h")
	v.SetDefault("session_idle_timeout", "2h")
	v.SetDefault("cors_allowed_origins", "")
}

// Load builds an AppConfig from v. Environment variables win over the
// config file; names are the upper-case keys (MONGO_URI, SMTP_HOST, ...).
func Load(v *viper.Viper) AppConfig {
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := AppConfig{
		Env:                       v.GetString("env"),
		Port:                      v.GetString("port"),
		MongoURI:                  v.GetString("mongo_uri"),
		DBName:                    v.GetString("db_name"),
		RedisAddr:                 v.GetString("redis_addr"),
		RedisPassword:             v.GetString("redis_password"),
		RedisDB:                   v.GetInt("redis_db"),
		SnapshotPrefix:            v.GetString("snapshot_prefix"),
		JWTSecret:                 v.GetString("jwt_secret"),
		FirebaseProjectID:         v.GetString("firebase_project_id"),
		FirebaseCredentialsFile:   v.GetString("google_application_credentials"),
		FirebaseCredentialsBase64: v.GetString("firebase_credentials_base64"),
		SMTPHost:                  v.GetString("smtp_host"),
		SMTPPort:                  v.GetInt("smtp_port"),
		SMTPUser:                  v.GetString("smtp_user"),
		SMTPPass:                  v.GetString("smtp_pass"),
		MailFrom:                  v.GetString("mail_from"),
		RestaurantEmail:           v.GetString("restaurant_email"),
		MailRetries:               v.GetInt("mail_retries"),
		MailRetryDelay:            v.GetDuration("mail_retry_delay"),
		MailRelayPort:             v.GetString("mail_relay_port"),
		NotificationDuration:      v.GetDuration("notification_duration"),
		NotificationMax:           v.GetInt("notification_max_visible"),
		NotificationSpacing:       v.GetInt("notification_stack_spacing"),
		NotificationExit:          v.GetDuration("notification_exit_delay"),
		ReminderInterval:          v.GetDuration("reminder_interval"),
		SessionIdleTimeout:        v.GetDuration("session_idle_timeout"),
	}

	if cfg.MongoURI == "" {
		cfg.MongoURI = v.GetString("mongodb_uri")
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTPUser
	}
	if cfg.RestaurantEmail == "" {
		cfg.RestaurantEmail = cfg.MailFrom
	}
	for _, origin := range strings.Split(v.GetString("cors_allowed_origins"), ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, trimmed)
		}
	}
	return cfg
}

// IsDevelopment reports whether development fallbacks are allowed
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}
