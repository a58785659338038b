package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "plaintext", cfg.Store.PasswordHashing)
	assert.Equal(t, 60, cfg.JWT.AccessExpiry)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, []string{"Laptop", "Phone", "Accessories"}, cfg.Shop.DefaultCategories)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.False(t, cfg.UsesRedis())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Redis")
	t.Setenv("STORE_PASSWORD_HASHING", "BCRYPT")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("SHOP_DEFAULT_CATEGORIES", "Laptop , ,Tablet")
	t.Setenv("SHOP_LOGIN_RATE_LIMIT", "5")

	cfg := Load()

	assert.Equal(t, "redis", cfg.Store.Driver)
	assert.Equal(t, "bcrypt", cfg.Store.PasswordHashing)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"Laptop", "Tablet"}, cfg.Shop.DefaultCategories)
	assert.Equal(t, 5, cfg.Shop.LoginRateLimit)
	assert.True(t, cfg.UsesRedis())
}

func TestUsesRedis(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"memory store", Config{Store: StoreConfig{Driver: "memory"}}, false},
		{"postgres store", Config{Store: StoreConfig{Driver: "postgres"}}, false},
		{"redis store", Config{Store: StoreConfig{Driver: "redis"}}, true},
		{"login limiter", Config{Store: StoreConfig{Driver: "memory"}, Shop: ShopConfig{LoginRateLimit: 3}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.UsesRedis())
		})
	}
}
