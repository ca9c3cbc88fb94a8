package config

import "time"

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	// SecretKey хранится в конфиге в base64url-кодировке
	SecretKey       string `yaml:"secret_key"`
	AccessTokenTTL  string `yaml:"access_token_ttl"`
	RefreshTokenTTL string `yaml:"refresh_token_ttl"`
}

type CacheConfig struct {
	// TokenPairTTL : время жизни записи о паре токенов в Redis
	TokenPairTTL string `yaml:"token_pair_ttl"`

	// заполняется в Validate, чтобы строка парсилась ровно один раз
	tokenPairTTL time.Duration
}

// TTL возвращает время жизни кэша, разобранное и проверенное в Validate
func (c *CacheConfig) TTL() time.Duration {
	return c.tokenPairTTL
}
