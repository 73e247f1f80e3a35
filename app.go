package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/config"
	"github.com/yeremiapane/restaurant-backoffice/controllers"
	"github.com/yeremiapane/restaurant-backoffice/database"
	"github.com/yeremiapane/restaurant-backoffice/kds"
	"github.com/yeremiapane/restaurant-backoffice/repository"
	"github.com/yeremiapane/restaurant-backoffice/router"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

// stores is everything the services need from the storage layer, plus what
// main needs to check and release it.
type stores struct {
	menus     repository.MenuRepository
	orders    repository.OrderRepository
	sequencer repository.Sequencer
	cache     services.ReportCache
	checks    map[string]controllers.HealthCheck
	closers   []func() error
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			utils.ErrorLogger.WithError(err).Error("Error closing store")
		}
	}
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	s := &stores{checks: make(map[string]controllers.HealthCheck)}

	switch cfg.Storage.Driver {
	case config.DriverMongo:
		store, err := repository.NewMongoStore(ctx, &cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() error { return store.Close(context.Background()) })
		if err := store.EnsureIndexes(ctx); err != nil {
			s.close()
			return nil, err
		}
		s.menus, s.orders, s.sequencer = store.Menus(), store.Orders(), store.Sequencer()
		s.checks["mongodb"] = store.Ping
		utils.InfoLogger.Printf("Connected to mongodb database %s", cfg.MongoDB.Database)

	case config.DriverMySQL, config.DriverSQLite:
		db, err := database.Open(cfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, sqlDB.Close)
		s.menus = repository.NewGormMenuRepository(db)
		s.orders = repository.NewGormOrderRepository(db)
		s.sequencer = repository.NewGormSequencer(db)
		s.checks[cfg.Storage.Driver] = sqlDB.PingContext

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Redis.Enabled {
		rdb := repository.NewRedisRepository(&cfg.Redis)
		s.closers = append(s.closers, rdb.Close)
		if err := rdb.Ping(ctx); err != nil {
			s.close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		s.cache = rdb
		s.checks["redis"] = rdb.Ping
		if cfg.Orders.Sequence == config.SequenceRedis {
			s.sequencer = rdb
		}
		utils.InfoLogger.Printf("Connected to redis at %s", cfg.Redis.Addr)
	}

	return s, nil
}

// application is the wired service graph behind the HTTP server.
type application struct {
	menu   *services.MenuService
	orders *services.OrderService
	hub    *kds.Hub
	router *gin.Engine
}

func newApplication(st *stores, cfg *config.Config) *application {
	app := &application{
		menu:   services.NewMenuService(st.menus, st.cache),
		orders: services.NewOrderService(st.orders, st.menus, st.sequencer, st.cache, cfg.Orders.NumberPrefix),
		hub:    kds.NewHub(),
	}
	app.router = router.SetupRouter(router.Controllers{
		Menu:      controllers.NewMenuController(app.menu, app.hub),
		Order:     controllers.NewOrderController(app.orders, app.hub),
		Dashboard: controllers.NewDashboardController(app.hub, cfg.Server.AllowedOrigin),
		Health:    &controllers.HealthController{Checks: st.checks},
	}, cfg.Server)
	return app
}
