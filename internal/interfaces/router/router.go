package router

import (
	holdsvc "github.com/jamesdamant/overTheHedge/internal/application/holdings"
	ingestsvc "github.com/jamesdamant/overTheHedge/internal/application/ingest"
	"github.com/jamesdamant/overTheHedge/internal/config"
	"github.com/jamesdamant/overTheHedge/internal/edgar"
	"github.com/jamesdamant/overTheHedge/internal/infrastructure/cache"
	"github.com/jamesdamant/overTheHedge/internal/infrastructure/database"
	filingshandler "github.com/jamesdamant/overTheHedge/internal/interfaces/handlers/filings"
	healthhandler "github.com/jamesdamant/overTheHedge/internal/interfaces/handlers/health"
	holdhandler "github.com/jamesdamant/overTheHedge/internal/interfaces/handlers/holdings"
	"github.com/jamesdamant/overTheHedge/internal/metrics"
	"github.com/jamesdamant/overTheHedge/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with all middleware and routes, opens the
// database and migrates the schema, and wires the optional Redis cache into
// the EDGAR client.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}

	var rdb *redis.Client
	var edgarCache edgar.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedis(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redisCache.Client
		edgarCache = redisCache
	}

	edgarClient := edgar.NewClient(edgar.ClientConfig{
		UserAgent:          cfg.SECUserAgent,
		SubmissionsBaseURL: cfg.SECSubmissionsURL,
		ArchivesBaseURL:    cfg.SECArchivesURL,
		Timeout:            cfg.HTTPTimeout,
		Cache:              edgarCache,
		CacheTTL:           cfg.CacheTTL,
	})

	holdingsService := &holdsvc.Service{DB: db}
	ingestService := &ingestsvc.Service{
		Edgar:       edgarClient,
		Holdings:    holdingsService,
		DB:          db,
		DefaultForm: cfg.DefaultForm,
		Metrics:     metrics.Default(),
	}

	hh := &healthhandler.Handlers{DB: &gormDBPinger{db: db}, Rdb: rdb}
	app.Get("/health/json", hh.JSON)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	fh := &filingshandler.Handlers{Service: ingestService}
	hd := &holdhandler.Handlers{Service: holdingsService}

	v1 := app.Group("/api/v1")
	v1.Get("/filings/latest", fh.Latest)
	v1.Get("/filings/preview", fh.Preview)
	v1.Post("/ingest", fh.Ingest)
	v1.Get("/runs", fh.Runs)
	v1.Get("/holdings", hd.All)
	v1.Get("/holdings/filter", hd.Filter)
	v1.Get("/holdings/count", hd.Count)

	return app, db, rdb, nil
}
