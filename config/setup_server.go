package config

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	DatabaseConfig DatabaseConfig `yaml:"databaseConfig"`
	RedisConfig    RedisConfig    `yaml:"redisConfig"`
	ServerAddr     string         `yaml:"serverAddr"`
	JWT            JWTConfig      `yaml:"jwt"`
	Cache          CacheConfig    `yaml:"cache"`
}

func LoadConfig(path string) (*AppConfig, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет инварианты конфигурации один раз при старте процесса:
// секретный ключ декодируется из base64url, время жизни refresh-токена
// строго больше времени жизни access-токена
func (cfg *AppConfig) Validate() error {
	if _, err := base64.RawURLEncoding.DecodeString(cfg.JWT.SecretKey); err != nil {
		return fmt.Errorf("секретный ключ не является корректной base64url строкой: %w", err)
	}

	accessTTL, err := time.ParseDuration(cfg.JWT.AccessTokenTTL)
	if err != nil {
		return fmt.Errorf("ошибка парсинга access_token_ttl: %w", err)
	}
	refreshTTL, err := time.ParseDuration(cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return fmt.Errorf("ошибка парсинга refresh_token_ttl: %w", err)
	}
	if refreshTTL <= accessTTL {
		return fmt.Errorf("refresh_token_ttl (%s) должен быть строго больше access_token_ttl (%s)", refreshTTL, accessTTL)
	}

	cfg.Cache.tokenPairTTL = 30 * time.Second
	if cfg.Cache.TokenPairTTL != "" {
		ttl, err := time.ParseDuration(cfg.Cache.TokenPairTTL)
		if err != nil {
			return fmt.Errorf("ошибка парсинга token_pair_ttl: %w", err)
		}
		cfg.Cache.tokenPairTTL = ttl
	}

	return nil
}

func SetupServer(serverAddress string) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	server := &http.Server{
		Addr:    serverAddress,
		Handler: router,
	}

	return server, router
}

func SetupDatabase(dsn string) (*Database, error) {
	return NewDatabaseConnection("postgres", dsn)
}

func SetupRedis(cfg *RedisConfig) (*RedisClient, error) {
	return NewRedisClient(cfg)
}
