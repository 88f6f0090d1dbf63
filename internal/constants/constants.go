package constants

import "time"

// for api identity
type ContextKey string

const (
	// 由上游認證服務帶入的身分 header
	UserIDHeaderKey    = "X-User-ID"
	UserRoleHeaderKey  = "X-User-Role"
	RequestIDHeaderKey = "X-Request-ID"

	IdentityKey ContextKey = "identity"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

type RequestID string

const (
	RequestIDKey RequestID = "request_id"
)

type ENV string

const (
	Dev  ENV = "development"
	Prod ENV = "production"
)

type StoreDriver string

const (
	StoreDriverPostgres StoreDriver = "postgres"
	StoreDriverMemory   StoreDriver = "memory"
)

const (
	// PayPal 付款方式名稱，寫入 payments.method
	PaymentMethodPayPal = "PayPal"

	DefaultGatewayTimeout  = 10 * time.Second
	DefaultNotifyTimeout   = 5 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// token 提前失效的緩衝時間
	AccessTokenExpirySkew = 60 * time.Second

	CachePrefixPayPal    = "shop:paypal"
	CachePrefixRateLimit = "shop:ratelimit"
)
