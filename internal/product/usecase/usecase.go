package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/changefeed"
	"github.com/fekuna/labstock-service/internal/inventory"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/product"
	"github.com/fekuna/labstock-service/internal/product/dto"
	"github.com/fekuna/labstock-service/internal/report"
	"github.com/fekuna/labstock-service/pkg/cache"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/fekuna/labstock-service/pkg/search"
	"go.uber.org/zap"
)

const (
	indexName     = "products"
	listCacheTTL  = 5 * time.Minute
	listKeyPrefix = "products:list:"
	searchLimit   = 50
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"code": { "type": "keyword" },
			"name": { "type": "text" },
			"cas_number": { "type": "keyword" },
			"formula": { "type": "keyword" },
			"location": { "type": "keyword" },
			"stock": { "type": "integer" },
			"created_at": { "type": "date" }
		}
	}
}`

type productUseCase struct {
	repo      product.Repository
	inventory inventory.UseCase
	cache     *cache.RedisClient
	es        *search.Client
	logger    logger.ZapLogger
}

// NewProductUseCase wires the catalog. cache and es are optional.
func NewProductUseCase(
	repo product.Repository,
	inv inventory.UseCase,
	cache *cache.RedisClient,
	es *search.Client,
	log logger.ZapLogger,
) product.UseCase {
	return &productUseCase{
		repo:      repo,
		inventory: inv,
		cache:     cache,
		es:        es,
		logger:    log,
	}
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", id)
	}
	return p, nil
}

type cachedList struct {
	Products []model.Product
	Count    int
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey, err := uc.generateCacheKey(filters)
	if err == nil && uc.cache != nil {
		val, err := uc.cache.Client.Get(ctx, cacheKey).Result()
		if err == nil {
			var result cachedList
			if err := json.Unmarshal([]byte(val), &result); err == nil {
				return result.Products, result.Count, nil
			}
		}
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" && uc.cache != nil {
		if data, err := json.Marshal(cachedList{Products: products, Count: count}); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, listCacheTTL)
		}
	}

	return products, count, nil
}

// SearchProducts queries the search index and falls back to a database
// ILIKE scan when the index is absent or failing.
func (uc *productUseCase) SearchProducts(ctx context.Context, query, location string, limit int) ([]model.Product, error) {
	if limit <= 0 || limit > searchLimit {
		limit = searchLimit
	}

	if uc.es != nil {
		must := []map[string]interface{}{
			{
				"query_string": map[string]interface{}{
					"query":  fmt.Sprintf("*%s*", query),
					"fields": []string{"name^3", "code^2", "cas_number", "formula"},
				},
			},
		}
		if location != "" {
			must = append(must, map[string]interface{}{
				"term": map[string]interface{}{"location": location},
			})
		}
		q := map[string]interface{}{
			"query": map[string]interface{}{
				"bool": map[string]interface{}{"must": must},
			},
			"size": limit,
		}

		res, err := uc.es.Search(ctx, indexName, q)
		if err == nil {
			products := make([]model.Product, 0, len(res.Hits.Hits))
			for _, hit := range res.Hits.Hits {
				var p model.Product
				if err := json.Unmarshal(hit.Source, &p); err == nil {
					products = append(products, p)
				}
			}
			return products, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, _, err := uc.repo.FindAll(ctx, &dto.ProductFilters{
		Location:    location,
		SearchQuery: query,
		PageSize:    limit,
		Page:        1,
	})
	return products, err
}

// DeleteProduct removes the row without writing a ledger entry.
func (uc *productUseCase) DeleteProduct(ctx context.Context, id string, actor model.Actor) error {
	if !actor.IsAdmin() {
		return apperror.Forbidden("admin role required")
	}
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return apperror.NotFound("product", id)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("product deleted",
		zap.String("product_id", id),
		zap.String("code", p.Code),
		zap.String("location", p.Location),
		zap.String("user", actor.UserName),
	)

	uc.invalidateProductCache(ctx)
	uc.removeFromElastic(ctx, id)
	return nil
}

func (uc *productUseCase) ImportCSV(ctx context.Context, data []byte, actor model.Actor) (*dto.ImportCSVResult, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("admin role required")
	}
	rows, parseErrs := report.ParseProducts(data)
	if len(rows) == 0 && len(parseErrs) == 0 {
		return nil, apperror.Validation("file", "no product rows")
	}

	result := &dto.ImportCSVResult{Errors: parseErrs}
	if len(rows) == 0 {
		return result, nil
	}

	imported, err := uc.inventory.ImportProducts(ctx, rows, actor)
	if imported != nil {
		result.TransactionRef = imported.TransactionRef
		result.Created = len(imported.Created)
		result.Errors = append(result.Errors, imported.Errors...)
	}
	return result, err
}

// OnChange keeps the list cache and the search index in step with product writes.
func (uc *productUseCase) OnChange(ctx context.Context, event changefeed.Event) error {
	uc.invalidateProductCache(ctx)

	if event.Table != changefeed.TableProducts || event.ID == "" {
		return nil
	}
	if event.Action == changefeed.ActionDelete {
		uc.removeFromElastic(ctx, event.ID)
		return nil
	}
	p, err := uc.repo.FindByID(ctx, event.ID)
	if err != nil {
		return err
	}
	if p == nil {
		uc.removeFromElastic(ctx, event.ID)
		return nil
	}
	uc.syncToElastic(ctx, p)
	return nil
}

func (uc *productUseCase) SyncIndex(ctx context.Context) error {
	if uc.es == nil {
		return nil
	}
	if err := uc.es.CreateIndex(ctx, indexName, indexMapping); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	products, _, err := uc.repo.FindAll(ctx, &dto.ProductFilters{})
	if err != nil {
		return err
	}
	for i := range products {
		uc.syncToElastic(ctx, &products[i])
	}
	uc.logger.Info("search index synced", zap.Int("products", len(products)))
	return nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	if err := uc.es.Index(ctx, indexName, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) removeFromElastic(ctx context.Context, id string) {
	if uc.es == nil {
		return
	}
	if err := uc.es.Delete(ctx, indexName, id); err != nil {
		uc.logger.Error("failed to delete product from ES", zap.String("product_id", id), zap.Error(err))
	}
}

func (uc *productUseCase) generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%x", listKeyPrefix, md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, listKeyPrefix+"*"); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}
