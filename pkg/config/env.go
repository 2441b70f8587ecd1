package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvJWTSecret = "JWT_SECRET"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvNotifyOpsTopic      = "NOTIFY_OPS_TOPIC"
	EnvNotifyEmailTopic    = "NOTIFY_EMAIL_TOPIC"
	EnvNotifyDLQTopic      = "NOTIFY_DLQ_TOPIC"
	EnvNotifyConsumerGroup = "NOTIFY_CONSUMER_GROUP"
	EnvOpsRecipient        = "OPS_RECIPIENT"

	EnvMailGatewayURL   = "MAIL_GATEWAY_URL"
	EnvMailGatewayToken = "MAIL_GATEWAY_TOKEN"
)
