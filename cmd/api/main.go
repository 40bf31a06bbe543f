package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/inventario-unidades/internal/application/inventory"
	"github.com/jhoicas/inventario-unidades/internal/application/usecase"
	"github.com/jhoicas/inventario-unidades/internal/domain/repository"
	"github.com/jhoicas/inventario-unidades/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-unidades/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/inventario-unidades/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/inventario-unidades/internal/interfaces/http"
	"github.com/jhoicas/inventario-unidades/migrations"
	"github.com/jhoicas/inventario-unidades/pkg/config"
	"github.com/jhoicas/inventario-unidades/pkg/logger"
)

// storage repositorios y ejecutor de transacciones del backend elegido.
type storage struct {
	txRunner  inventory.TxRunner
	products  repository.ProductRepository
	units     repository.UnitRepository
	movements repository.MovementRepository
	history   repository.StockHistoryRepository
	employees repository.EmployeeRepository
	checks    map[string]httpRouter.HealthCheck
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Inventory.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store := openStorage(ctx, cfg, log)
	defer store.close()

	var publisher inventory.EventPublisher = inventory.NewLogPublisher(log.Component("events"))
	if cfg.Redis.Enabled {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		redisPub := infraredis.NewPublisher(client, cfg.Redis.Channel)
		publisher = redisPub
		store.checks["redis"] = redisPub.Ping
		log.Info().Str("channel", cfg.Redis.Channel).Msg("eventos publicados en Redis")
	}

	productUC := usecase.NewProductUseCase(store.products, store.units)
	unitUC := inventory.NewUnitUseCase(
		store.txRunner, store.products, store.units, store.employees,
		publisher, log.Zerolog(),
		inventory.UnitOptions{AllowPlaceholderSerials: cfg.Inventory.AllowPlaceholderSerials},
	)
	stockUC := inventory.NewStockUseCase(store.txRunner, store.products, store.units, publisher, log.Zerolog())
	queryUC := inventory.NewQueryUseCase(store.products, store.units, store.movements, store.history, store.employees)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:      productUC,
		UnitUC:         unitUC,
		StockUC:        stockUC,
		QueryUC:        queryUC,
		JWTSecret:      cfg.JWT.Secret,
		DefaultCompany: cfg.Inventory.DefaultCompany,
		AppName:        cfg.App.Name,
		Log:            log.Component("http"),
		HealthChecks:   store.checks,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage abre PostgreSQL (por defecto) o el almacén en memoria.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) *storage {
	if cfg.Inventory.Storage == config.StorageMemory {
		s := memory.NewStore()
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		return &storage{
			txRunner:  s,
			products:  s.Products(),
			units:     s.Units(),
			movements: s.Movements(),
			history:   s.History(),
			employees: s.Employees(),
			checks:    map[string]httpRouter.HealthCheck{},
			close:     func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool, migrations.Files)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	}
	return &storage{
		txRunner:  postgres.NewTxRunner(pool),
		products:  postgres.NewProductRepository(pool),
		units:     postgres.NewUnitRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		history:   postgres.NewStockHistoryRepository(pool),
		employees: postgres.NewEmployeeRepository(pool),
		checks:    map[string]httpRouter.HealthCheck{"postgres": pool.Ping},
		close:     pool.Close,
	}
}
