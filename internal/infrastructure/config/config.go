package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	sharedConfig "github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/config"
)

type Config struct {
	Server     sharedConfig.ServerConfig     `mapstructure:"server"`
	Database   sharedConfig.DatabaseConfig   `mapstructure:"database"`
	Logger     sharedConfig.LoggerConfig     `mapstructure:"logger"`
	Auth       sharedConfig.AuthConfig       `mapstructure:"auth"`
	Email      sharedConfig.EmailConfig      `mapstructure:"email"`
	Redis      sharedConfig.RedisConfig      `mapstructure:"redis"`
	Gateway    sharedConfig.GatewayConfig    `mapstructure:"gateway"`
	Activation sharedConfig.ActivationConfig `mapstructure:"activation"`
	Pricing    sharedConfig.PricingConfig    `mapstructure:"pricing"`
	Scheduler  sharedConfig.SchedulerConfig  `mapstructure:"scheduler"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// envFiles are tried in order; the first one found is loaded into the
// process environment without overriding variables that are already set.
var envFiles = []string{".env", "../../.env", "../../../.env"}

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath("../../../configs")

	v.SetEnvPrefix("CORRETOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func loadDotEnv() error {
	for _, f := range envFiles {
		err := godotenv.Load(f)
		if err == nil {
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.timezone", "America/Sao_Paulo")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "corretor_dev")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Auth defaults
	v.SetDefault("auth.jwt.secret", "change-me-in-production")
	v.SetDefault("auth.jwt.issuer", "corretor")
	v.SetDefault("auth.jwt.access_exp_minutes", 60)
	v.SetDefault("auth.cookie_name", "corretor_session")

	// Email defaults
	v.SetDefault("email.smtp_host", "localhost")
	v.SetDefault("email.smtp_port", 1025)
	v.SetDefault("email.smtp_user", "")
	v.SetDefault("email.smtp_password", "")
	v.SetDefault("email.from_address", "noreply@corretordetextoonline.com.br")
	v.SetDefault("email.from_name", "CorretorIA")
	v.SetDefault("email.dashboard_url", "https://www.corretordetextoonline.com.br/dashboard")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Gateway defaults; an empty base_url selects the in-memory gateway
	v.SetDefault("gateway.provider", "pix")
	v.SetDefault("gateway.base_url", "")
	v.SetDefault("gateway.token_url", "")
	v.SetDefault("gateway.client_id", "")
	v.SetDefault("gateway.client_secret", "")
	v.SetDefault("gateway.webhook_secret", "")
	v.SetDefault("gateway.notification_url", "")
	v.SetDefault("gateway.timeout_seconds", 5)
	v.SetDefault("gateway.payment_ttl_minutes", 30)

	// Activation defaults
	v.SetDefault("activation.poll_interval_seconds", 3)
	v.SetDefault("activation.poll_budget_seconds", 180)
	v.SetDefault("activation.rate_limit_per_minute", 60)

	// Pricing defaults, in cents
	v.SetDefault("pricing.currency", "BRL")
	v.SetDefault("pricing.monthly", 1990)
	v.SetDefault("pricing.annual", 19900)
	v.SetDefault("pricing.bundle", 29900)

	// Scheduler defaults
	v.SetDefault("scheduler.interval_minutes", 5)
	v.SetDefault("scheduler.batch_size", 100)
}
