package main

import (
	"arenabook/internal/bookings/handler"
	bookingsrepo "arenabook/internal/bookings/repository"
	"arenabook/internal/bookings/service"
	"arenabook/internal/bookings/validator"
	complexrepo "arenabook/internal/complexes/repository"
	"arenabook/internal/notify"
	usersrepo "arenabook/internal/users/repository"
	"arenabook/pkg/app"
	"arenabook/pkg/config"
	"arenabook/pkg/kafka"
	kafka_config "arenabook/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	kafkaCfg := kafka_config.Load()
	opsProducer, err := kafka.NewProducer(kafkaCfg, cfg.NotifyOpsTopic, cfg.NotifyDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create ops producer", "error", err)
	}
	defer opsProducer.Close()

	emailProducer, err := kafka.NewProducer(kafkaCfg, cfg.NotifyEmailTopic, cfg.NotifyDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create email producer", "error", err)
	}
	defer emailProducer.Close()

	notifier := notify.NewKafkaNotifier(cfg, opsProducer, emailProducer)

	cfg.Log.Info("Starting Bookings service")
	bookingService := initServices(cfg, notifier)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, notifier notify.Notifier) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	complexRepo := complexrepo.NewMongoComplexRepository(cfg)
	sportRepo := complexrepo.NewMongoSportRepository(cfg)
	userRepo := usersrepo.NewMongoUserRepository(cfg)

	bookingService := service.NewBookingService(
		bookingRepo,
		complexRepo,
		sportRepo,
		userRepo,
		bookingValidator,
		notifier,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
