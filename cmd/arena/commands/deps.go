package commands

import (
	"fmt"

	"github.com/tradearena/backend/internal/ranking"
	"github.com/tradearena/backend/internal/trade"
	"github.com/tradearena/backend/pkg/config"
	"github.com/tradearena/backend/pkg/database"
	"github.com/tradearena/backend/pkg/logger"
	"github.com/tradearena/backend/pkg/redis"
)

// deps bundles the wiring shared by the api, scheduler and recompute
// commands.
type deps struct {
	cfg          *config.Config
	log          *logger.Logger
	db           *database.DB
	redisClient  *redis.Client
	cache        *redis.Cache
	reader       *ranking.Reader
	orchestrator *ranking.Orchestrator
}

// buildDeps loads config and connects the stores and core components
func buildDeps() (*deps, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Info("Connected to database")

	// 4. Connect to Redis (optional)
	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	cache := redis.NewCache(redisClient, "arena")
	passLock := redis.NewLock(redisClient, "arena")

	// 5. Create repositories
	tradeRepo := trade.NewRepository(db.Pool)
	rankingRepo := ranking.NewRepository(db.Pool)

	// 6. Create core components
	reader := ranking.NewReader(rankingRepo, tradeRepo, log)
	orchestrator := ranking.NewOrchestrator(tradeRepo, tradeRepo, rankingRepo, log,
		ranking.WithWorkers(cfg.Ranking.PassWorkers),
		ranking.WithRunLock(passLock, cfg.Ranking.PassLockTTL),
	)

	return &deps{
		cfg:          cfg,
		log:          log,
		db:           db,
		redisClient:  redisClient,
		cache:        cache,
		reader:       reader,
		orchestrator: orchestrator,
	}, nil
}

// close releases the connections held by deps
func (d *deps) close() {
	if d.redisClient != nil {
		_ = d.redisClient.Close()
	}
	if d.db != nil {
		d.db.Close()
	}
}
