package main

import (
	"os"

	bookinghandler "github.com/Ruthreshjp/tour-app-sub001/internal/bookings/handler"
	bookingrepo "github.com/Ruthreshjp/tour-app-sub001/internal/bookings/repository"
	bookingservice "github.com/Ruthreshjp/tour-app-sub001/internal/bookings/service"
	bookingvalidator "github.com/Ruthreshjp/tour-app-sub001/internal/bookings/validator"
	businessrepo "github.com/Ruthreshjp/tour-app-sub001/internal/businesses/repository"
	businessservice "github.com/Ruthreshjp/tour-app-sub001/internal/businesses/service"
	businessvalidator "github.com/Ruthreshjp/tour-app-sub001/internal/businesses/validator"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/app"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/config"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/events"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/kafka"
	kafka_config "github.com/Ruthreshjp/tour-app-sub001/pkg/kafka/config"
	kafkamiddleware "github.com/Ruthreshjp/tour-app-sub001/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	publisher, producer := initPublisher(cfg)
	bookingService := initServices(cfg, publisher)

	serverApp := app.NewApplication(cfg)
	if producer != nil {
		serverApp.OnShutdown(func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		})
	}

	serverApp.SetApp(
		bookinghandler.NewHealthHandler(cfg.Client.Mongo.Client, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
	)
	serverApp.Run()
}

// initPublisher wires the Kafka event publisher when brokers are configured.
// Without KAFKA_BROKERS the service runs standalone and events are dropped.
func initPublisher(cfg *config.Config) (events.Publisher, *kafka.Producer) {
	if os.Getenv(kafka_config.EnvKafkaBrokers) == "" {
		cfg.Log.Warn("KAFKA_BROKERS not set, booking events will not be published")
		return events.NewNoopPublisher(), nil
	}

	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafkamiddleware.ProducerLogging(cfg.Log))

	return events.NewKafkaPublisher(producer, ServiceName, cfg.Log), producer
}

func initServices(cfg *config.Config, publisher events.Publisher) bookingservice.BookingService {
	directory := businessservice.NewBusinessService(
		businessrepo.NewMongoBusinessRepository(cfg),
		businessvalidator.NewBusinessValidator(cfg.Log),
		cfg,
	)

	bookingService := bookingservice.NewBookingService(
		bookingrepo.NewMongoBookingRepository(cfg),
		bookingrepo.NewReviewLockRepository(cfg),
		directory,
		bookingvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
