package constants

// Static route constants
const (
	PublicRoute = "/"
	APIRoute    = "/api"
	APIv1Route  = "/v1"
	AdminRoute  = "/admin"

	// Header carrying the admin trigger key
	AdminKeyHeader = "X-Admin-Key"
)
