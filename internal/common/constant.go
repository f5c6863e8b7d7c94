package common

// Header and cookie names shared by the HTTP server and the CLI client.
const (
	AuthorizationHeaderName = "Authorization"
	BearerScheme            = "Bearer"
	DefaultTokenCookieName  = "token"
)
