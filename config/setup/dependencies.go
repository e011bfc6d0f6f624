package setup

import (
	"log/slog"
	"storefront/app"
	"storefront/config"
	"storefront/database"
	"storefront/events"
	"storefront/outbox"
	"storefront/session"
	"time"
)

// InitDatabase initializes the SQLite database and runs migrations
func InitDatabase(dbPath string, logger *slog.Logger) (*database.DB, error) {
	db, err := database.New(dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database initialized", "path", dbPath)
	return db, nil
}

// InitPublisher picks Kafka when brokers are configured and the log publisher otherwise
func InitPublisher(cfg *config.Config, logger *slog.Logger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("no kafka brokers configured, events go to the log")
		return events.NewLogPublisher(logger)
	}

	logger.Info("kafka publisher configured", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	return events.NewKafkaPublisher(events.KafkaPublisherParams{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
	})
}

// InitApp initializes the application with all dependencies and starts background routines
func InitApp(cfg *config.Config, db *database.DB, publisher events.Publisher, logger *slog.Logger) *app.App {
	repo := database.NewRepository(db)

	sessionStore := session.NewStore(db.DB, cfg.SessionTTL)
	sessionStore.StartCleanupRoutine(time.Hour)
	logger.Info("session cleanup routine started")

	worker := outbox.NewWorker(repo, publisher, logger, outbox.DefaultConfig())
	worker.Start()

	application := app.New(cfg, repo, sessionStore, worker, logger)
	logger.Info("application initialized with dependency injection")

	return application
}

// StopBackground stops the outbox worker and the session cleanup routine
func StopBackground(application *app.App, logger *slog.Logger) {
	if application.Outbox != nil {
		application.Outbox.Stop()
		logger.Info("outbox worker stopped")
	}
	if application.SessionStore != nil {
		application.SessionStore.Stop()
		logger.Info("session cleanup stopped")
	}
}

// Close releases the publisher and the database
func Close(publisher events.Publisher, db *database.DB, logger *slog.Logger) {
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to close publisher", "error", err)
		} else {
			logger.Info("publisher closed")
		}
	}

	if db != nil {
		db.Close()
		logger.Info("database closed")
	}
}
