package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderSignature     = "X-Signature"

	// gin context keys populated by the auth middleware
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"

	// Redis channel carrying activation events between server replicas
	ChannelActivationEvents = "corretor:activation:events"

	// Provider name recorded on webhook receipts
	WebhookProviderPix = "pix"
)

// Table names
const (
	TablePayments      = "payments"
	TableSubscriptions = "subscriptions"
	TableEntitlements  = "entitlements"
	TableWebhookEvents = "webhook_events"
)
