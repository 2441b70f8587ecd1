package main

import (
	"arenabook/internal/complexes/handler"
	"arenabook/internal/complexes/repository"
	"arenabook/internal/complexes/service"
	"arenabook/internal/complexes/validator"
	usersrepo "arenabook/internal/users/repository"
	"arenabook/pkg/app"
	"arenabook/pkg/config"
)

const ServiceName = "complexes"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Complexes service")
	complexService := initServices(cfg)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewComplexHandler(complexService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ComplexService {
	complexValidator := validator.NewComplexValidator(cfg.Log)
	complexRepo := repository.NewMongoComplexRepository(cfg)
	sportRepo := repository.NewMongoSportRepository(cfg)
	userRepo := usersrepo.NewMongoUserRepository(cfg)

	complexService := service.NewComplexService(
		complexRepo,
		sportRepo,
		userRepo,
		complexValidator,
		cfg,
	)

	cfg.Log.Info("Complex service initialized", "database", cfg.MongoDatabaseName)
	return complexService
}
