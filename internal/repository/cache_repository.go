package repository

import (
	"auth-token-server/config"
	"auth-token-server/internal/model"
	"auth-token-server/internal/util"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheRepository кэширует строки реестра токенов в Redis с коротким TTL,
// снимая нагрузку с БД на горячем пути валидации. Пишут в кэш только выпуск
// пары и отзыв: отзыв перезаписывает ключи отозванной строкой, устаревание
// остальных записей ограничено TTL
type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

func (r *CacheRepository) SetTokenPair(ctx context.Context, pair *model.TokenPair) error {
	data, err := json.Marshal(pair)
	if err != nil {
		return util.LogError("ошибка сериализации пары токенов", err)
	}

	// пара кладется под обоими ключами, чтобы работал поиск и по access, и по refresh
	pipe := r.client.Client.Pipeline()
	pipe.Set(ctx, r.accessKey(pair.AccessToken), data, r.ttl)
	pipe.Set(ctx, r.refreshKey(pair.RefreshToken), data, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return util.LogError("ошибка сохранения в Redis", err)
	}

	return nil
}

func (r *CacheRepository) GetByAccessToken(ctx context.Context, accessToken string) (*model.TokenPair, error) {
	return r.get(ctx, r.accessKey(accessToken))
}

func (r *CacheRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	return r.get(ctx, r.refreshKey(refreshToken))
}

func (r *CacheRepository) get(ctx context.Context, key string) (*model.TokenPair, error) {
	val, err := r.client.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // нет в кэше
	} else if err != nil {
		return nil, util.LogError("ошибка получения пары токенов из Redis", err)
	}

	var pair model.TokenPair
	if err := json.Unmarshal([]byte(val), &pair); err != nil {
		return nil, util.LogError("ошибка десериализации пары токенов из кэша", err)
	}
	return &pair, nil
}

func (r *CacheRepository) accessKey(token string) string {
	return fmt.Sprintf("token_pair:access:%s", token)
}

func (r *CacheRepository) refreshKey(token string) string {
	return fmt.Sprintf("token_pair:refresh:%s", token)
}
