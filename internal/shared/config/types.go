package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Timezone       string   `mapstructure:"timezone"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// GetDSN uses UTC so stored timestamps never shift with the host timezone.
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	Issuer           string `mapstructure:"issuer"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	JWT        JWTConfig `mapstructure:"jwt"`
	CookieName string    `mapstructure:"cookie_name"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
	DashboardURL string `mapstructure:"dashboard_url"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// GatewayConfig configures the PIX payment gateway client.
type GatewayConfig struct {
	Provider          string `mapstructure:"provider"`
	BaseURL           string `mapstructure:"base_url"`
	TokenURL          string `mapstructure:"token_url"`
	ClientID          string `mapstructure:"client_id"`
	ClientSecret      string `mapstructure:"client_secret"`
	WebhookSecret     string `mapstructure:"webhook_secret"`
	NotificationURL   string `mapstructure:"notification_url"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"`
	PaymentTTLMinutes int    `mapstructure:"payment_ttl_minutes"`
}

func (g *GatewayConfig) Timeout() time.Duration {
	if g.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(g.TimeoutSeconds) * time.Second
}

func (g *GatewayConfig) PaymentTTL() time.Duration {
	if g.PaymentTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(g.PaymentTTLMinutes) * time.Minute
}

// ActivationConfig holds the client polling contract advertised by the
// verify endpoint and the per-IP limit guarding it.
type ActivationConfig struct {
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds"`
	PollBudgetSeconds   int `mapstructure:"poll_budget_seconds"`
	RateLimitPerMinute  int `mapstructure:"rate_limit_per_minute"`
}

// PricingConfig maps plan kinds to amounts in cents.
type PricingConfig struct {
	Currency string `mapstructure:"currency"`
	Monthly  int64  `mapstructure:"monthly"`
	Annual   int64  `mapstructure:"annual"`
	Bundle   int64  `mapstructure:"bundle"`
}

type SchedulerConfig struct {
	IntervalMinutes int `mapstructure:"interval_minutes"`
	BatchSize       int `mapstructure:"batch_size"`
}
