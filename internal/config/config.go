package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Kafka    KafkaConfig
	Admin    AdminConfig
	Shop     ShopConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
	TrustProxy     bool // honour X-Forwarded-For / X-Real-IP
}

// StoreConfig selects the key-value backend: memory, redis or postgres
type StoreConfig struct {
	Driver          string
	NamespacePrefix string
	PasswordHashing string // plaintext or bcrypt
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry int // in minutes
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type AdminConfig struct {
	Username    string
	Password    string
	RecoveryKey string
}

type ShopConfig struct {
	Phone             string
	DefaultCategories []string
	LoginRateLimit    int // attempts per minute, 0 disables
}

func Load() *Config {
	// Preload .env into the process environment so that AutomaticEnv sees it
	// even when viper cannot parse the file.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env: %v", err)
	}

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")
	viper.SetDefault("SERVER_TRUST_PROXY", false)
	viper.SetDefault("STORE_DRIVER", "memory")
	viper.SetDefault("STORE_NAMESPACE_PREFIX", "shop")
	viper.SetDefault("STORE_PASSWORD_HASHING", "plaintext")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("JWT_ACCESS_EXPIRY", 60)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "storefront.orders")
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_PASSWORD", "123456")
	viper.SetDefault("ADMIN_RECOVERY_KEY", "SHOP_RECOVERY_2024")
	viper.SetDefault("SHOP_PHONE", "0792630630")
	viper.SetDefault("SHOP_DEFAULT_CATEGORIES", "Laptop,Phone,Accessories")
	viper.SetDefault("SHOP_LOGIN_RATE_LIMIT", 0)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Env:            viper.GetString("SERVER_ENV"),
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			TrustProxy:     viper.GetBool("SERVER_TRUST_PROXY"),
		},
		Store: StoreConfig{
			Driver:          strings.ToLower(viper.GetString("STORE_DRIVER")),
			NamespacePrefix: viper.GetString("STORE_NAMESPACE_PREFIX"),
			PasswordHashing: strings.ToLower(viper.GetString("STORE_PASSWORD_HASHING")),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: viper.GetInt("JWT_ACCESS_EXPIRY"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(viper.GetString("KAFKA_BROKERS")),
			Topic:   viper.GetString("KAFKA_TOPIC"),
		},
		Admin: AdminConfig{
			Username:    viper.GetString("ADMIN_USERNAME"),
			Password:    viper.GetString("ADMIN_PASSWORD"),
			RecoveryKey: viper.GetString("ADMIN_RECOVERY_KEY"),
		},
		Shop: ShopConfig{
			Phone:             viper.GetString("SHOP_PHONE"),
			DefaultCategories: splitList(viper.GetString("SHOP_DEFAULT_CATEGORIES")),
			LoginRateLimit:    viper.GetInt("SHOP_LOGIN_RATE_LIMIT"),
		},
	}
}

// UsesRedis reports whether any component needs a Redis client
func (c *Config) UsesRedis() bool {
	return c.Store.Driver == "redis" || c.Shop.LoginRateLimit > 0
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
