package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（8080）
	GoEnv string // dev/prod

	DBDriver    string // postgres / mysql
	DatabaseURL string // 指定があれば最優先

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	MySQLDSN string

	JWTSecret    string        // JWT署名シークレット
	AuthTokenTTL time.Duration // auth-token cookie の有効期限
	CookieSecure bool

	FEURL string // フロントURL（CORS）

	KafkaBrokers    []string
	KafkaOrderTopic string

	TaxRate               decimal.Decimal
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal

	LogLevel string

	// 管理画面のカスタム受注一覧で常に表示するデモアドレス
	AdminAllowedDemoEmail string
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}

// Loadは .env（あれば）と環境変数から読む
func Load() (Config, error) {
	// .env は無くてもよい
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	pgPort := v.GetInt("POSTGRES_PORT")
	if pgPort <= 0 {
		return Config{}, fmt.Errorf("POSTGRES_PORT must be number: %q", v.GetString("POSTGRES_PORT"))
	}

	taxRate, err := decimalOf(v, "TAX_RATE")
	if err != nil {
		return Config{}, err
	}
	shippingFee, err := decimalOf(v, "SHIPPING_FEE")
	if err != nil {
		return Config{}, err
	}
	freeShipping, err := decimalOf(v, "FREE_SHIPPING_THRESHOLD")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:  v.GetString("PORT"),
		GoEnv: v.GetString("GO_ENV"),

		DBDriver:    strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL: v.GetString("DATABASE_URL"),

		PostgresUser:     v.GetString("POSTGRES_USER"),
		PostgresPassword: v.GetString("POSTGRES_PASSWORD"),
		PostgresDB:       v.GetString("POSTGRES_DB"),
		PostgresHost:     v.GetString("POSTGRES_HOST"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  v.GetString("POSTGRES_SSLMODE"),

		MySQLDSN: v.GetString("MYSQL_DSN"),

		JWTSecret:    v.GetString("JWT_SECRET"),
		AuthTokenTTL: v.GetDuration("AUTH_TOKEN_TTL"),
		CookieSecure: v.GetBool("COOKIE_SECURE"),

		FEURL: v.GetString("FE_URL"),

		KafkaBrokers:    splitList(v.GetString("KAFKA_BROKERS")),
		KafkaOrderTopic: v.GetString("KAFKA_ORDER_TOPIC"),

		TaxRate:               taxRate,
		ShippingFee:           shippingFee,
		FreeShippingThreshold: freeShipping,

		LogLevel: v.GetString("LOG_LEVEL"),

		AdminAllowedDemoEmail: v.GetString("ADMIN_ALLOWED_DEMO_EMAIL"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	switch cfg.DBDriver {
	case "postgres", "mysql":
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be postgres or mysql: %q", cfg.DBDriver)
	}
	if cfg.DBDriver == "mysql" && cfg.DatabaseURL == "" && cfg.MySQLDSN == "" {
		return Config{}, fmt.Errorf("MYSQL_DSN is required when DB_DRIVER=mysql")
	}
	if cfg.JWTSecret == "" {
		if cfg.IsProd() {
			return Config{}, fmt.Errorf("JWT_SECRET is required")
		}
		cfg.JWTSecret = "dev_secret_change_me"
	}
	if cfg.AuthTokenTTL <= 0 {
		return Config{}, fmt.Errorf("AUTH_TOKEN_TTL must be positive")
	}
	if cfg.TaxRate.IsNegative() || cfg.ShippingFee.IsNegative() || cfg.FreeShippingThreshold.IsNegative() {
		return Config{}, fmt.Errorf("pricing values must be >= 0")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GO_ENV", "dev")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "postgres")
	v.SetDefault("POSTGRES_DB", "atelier")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("AUTH_TOKEN_TTL", "24h")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("FE_URL", "http://localhost:3000")
	v.SetDefault("KAFKA_ORDER_TOPIC", "order.created")
	v.SetDefault("TAX_RATE", "0.05")
	v.SetDefault("SHIPPING_FEE", "99")
	v.SetDefault("FREE_SHIPPING_THRESHOLD", "2999")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ADMIN_ALLOWED_DEMO_EMAIL", "demo@example.com")
}

func decimalOf(v *viper.Viper, key string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be number: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
