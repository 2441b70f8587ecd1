package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "arenabook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 20
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultNotifyOpsTopic      = "arenabook.notifications.ops"
	DefaultNotifyEmailTopic    = "arenabook.notifications.email"
	DefaultNotifyDLQTopic      = "arenabook.notifications.dlq"
	DefaultNotifyConsumerGroup = "arenabook-notifications"
	DefaultOpsRecipient        = "ops@arenabook.local"

	DefaultMailGatewayURL = "http://localhost:8090"

	DefaultPaginationLimit = 100
)
