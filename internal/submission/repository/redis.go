package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/pkg/cache"
	"github.com/redis/go-redis/v9"
)

const draftTTL = 7 * 24 * time.Hour

// RedisDraftStore keeps one JSON draft per depot.
type RedisDraftStore struct {
	cache *cache.RedisClient
}

func NewRedisDraftStore(c *cache.RedisClient) *RedisDraftStore {
	return &RedisDraftStore{cache: c}
}

func draftKey(depotID string) string {
	return "draft:submission:" + depotID
}

func (s *RedisDraftStore) Get(ctx context.Context, depotID string) ([]model.SubmissionItem, error) {
	val, err := s.cache.Client.Get(ctx, draftKey(depotID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperror.Remote("get draft", err)
	}
	var items []model.SubmissionItem
	if err := json.Unmarshal(val, &items); err != nil {
		return nil, apperror.Remote("decode draft", err)
	}
	return items, nil
}

func (s *RedisDraftStore) Save(ctx context.Context, depotID string, items []model.SubmissionItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return apperror.Remote("save draft", s.cache.Client.Set(ctx, draftKey(depotID), data, draftTTL).Err())
}

func (s *RedisDraftStore) Clear(ctx context.Context, depotID string) error {
	return apperror.Remote("clear draft", s.cache.Client.Del(ctx, draftKey(depotID)).Err())
}
