package main

import (
	"github.com/Ruthreshjp/tour-app-sub001/internal/businesses/handler"
	"github.com/Ruthreshjp/tour-app-sub001/internal/businesses/repository"
	"github.com/Ruthreshjp/tour-app-sub001/internal/businesses/service"
	"github.com/Ruthreshjp/tour-app-sub001/internal/businesses/validator"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/app"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/config"
)

const ServiceName = "businesses"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Businesses service")
	businessService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewHealthHandler(cfg.Client.Mongo.Client, cfg.Log),
		handler.NewBusinessHandler(businessService, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.BusinessService {
	businessService := service.NewBusinessService(
		repository.NewMongoBusinessRepository(cfg),
		validator.NewBusinessValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Business service initialized", "database", cfg.MongoDatabaseName)
	return businessService
}
