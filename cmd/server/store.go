package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/labstock-service/config"
	"github.com/fekuna/labstock-service/internal/alert"
	alertRepoPkg "github.com/fekuna/labstock-service/internal/alert/repository"
	"github.com/fekuna/labstock-service/internal/chat"
	chatRepoPkg "github.com/fekuna/labstock-service/internal/chat/repository"
	"github.com/fekuna/labstock-service/internal/depot"
	depotRepoPkg "github.com/fekuna/labstock-service/internal/depot/repository"
	"github.com/fekuna/labstock-service/internal/inventory"
	invRepoPkg "github.com/fekuna/labstock-service/internal/inventory/repository"
	"github.com/fekuna/labstock-service/internal/movement"
	movementRepoPkg "github.com/fekuna/labstock-service/internal/movement/repository"
	"github.com/fekuna/labstock-service/internal/product"
	prodRepoPkg "github.com/fekuna/labstock-service/internal/product/repository"
	"github.com/fekuna/labstock-service/internal/store/memory"
	"github.com/fekuna/labstock-service/internal/submission"
	submissionRepoPkg "github.com/fekuna/labstock-service/internal/submission/repository"
	"github.com/fekuna/labstock-service/internal/user"
	userRepoPkg "github.com/fekuna/labstock-service/internal/user/repository"
	"github.com/fekuna/labstock-service/pkg/cache"
	"github.com/fekuna/labstock-service/pkg/database/postgres"
	"github.com/fekuna/labstock-service/pkg/logger"
	"go.uber.org/zap"
)

type repositories struct {
	products    product.Repository
	inventory   inventory.Repository
	movements   movement.Repository
	depots      depot.Repository
	users       user.Repository
	submissions submission.Repository
	drafts      submission.DraftStore
	chat        chat.Repository
	alerts      alert.Repository
	locker      inventory.Locker

	ping  func(ctx context.Context) error
	close func()
}

// openStore selects the repositories for STORE_DRIVER. Redis, when
// connected, provides the per-product lock and the submission drafts.
func openStore(cfg *config.Config, redisClient *cache.RedisClient, log logger.ZapLogger) (*repositories, error) {
	var repos *repositories

	switch cfg.Server.StoreDriver {
	case "memory":
		store := memory.New()
		repos = &repositories{
			products:    store.Products(),
			inventory:   store.Products(),
			movements:   store.Movements(),
			depots:      store.Depots(),
			users:       store.Users(),
			submissions: store.Submissions(),
			drafts:      store.Drafts(),
			chat:        store.Chat(),
			alerts:      store.Alerts(),
			locker:      store.Locks(),
			ping:        func(context.Context) error { return nil },
			close:       func() {},
		}
		log.Warn("Using in-memory store, data is lost on restart")

	case "postgres", "":
		db, err := postgres.NewPostgres(&postgres.Config{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			DBName:          cfg.Postgres.DBName,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		log.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

		fallback := memory.New()
		repos = &repositories{
			products:    prodRepoPkg.NewPGRepository(db),
			inventory:   invRepoPkg.NewPGRepository(db),
			movements:   movementRepoPkg.NewPGRepository(db),
			depots:      depotRepoPkg.NewPGRepository(db),
			users:       userRepoPkg.NewPGRepository(db),
			submissions: submissionRepoPkg.NewPGRepository(db),
			drafts:      fallback.Drafts(),
			chat:        chatRepoPkg.NewPGRepository(db),
			alerts:      alertRepoPkg.NewPGRepository(db),
			ping:        db.PingContext,
			close:       func() { db.Close() },
		}

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Server.StoreDriver)
	}

	if redisClient != nil {
		repos.locker = redisClient
		repos.drafts = submissionRepoPkg.NewRedisDraftStore(redisClient)
	}
	return repos, nil
}
