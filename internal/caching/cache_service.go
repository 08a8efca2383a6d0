package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/softline/vitrine/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type CacheService interface {
	// Product image caching
	GetProductImages(ctx context.Context, codpro string) (*models.ProductImages, error)
	SetProductImages(ctx context.Context, images *models.ProductImages, ttl time.Duration) error
	DeleteProductImages(ctx context.Context, codpro string) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as host:port
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		zap.L().Warn("redis ping failed on initialization", zap.String("addr", parsedAddr), zap.Error(pingErr))
	} else {
		zap.L().Debug("redis connection established", zap.String("addr", parsedAddr))
	}

	return &redisCacheService{client: client}
}

func productImagesKey(codpro string) string {
	return fmt.Sprintf("vitrine:product-images:%s", codpro)
}

// GetProductImages returns nil, nil on a cache miss.
func (r *redisCacheService) GetProductImages(ctx context.Context, codpro string) (*models.ProductImages, error) {
	data, err := r.client.Get(ctx, productImagesKey(codpro)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var images models.ProductImages
	if err := json.Unmarshal(data, &images); err != nil {
		return nil, err
	}
	return &images, nil
}

func (r *redisCacheService) SetProductImages(ctx context.Context, images *models.ProductImages, ttl time.Duration) error {
	data, err := json.Marshal(images)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, productImagesKey(images.CodPro), data, ttl).Err()
}

func (r *redisCacheService) DeleteProductImages(ctx context.Context, codpro string) error {
	return r.client.Del(ctx, productImagesKey(codpro)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
