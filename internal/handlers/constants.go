package handlers

const (
	OAuthStateCookie    = "oauth_state"
	OAuthProviderCookie = "oauth_provider"
	OAuthNonceCookie    = "oauth_nonce"
	OAuthReturnCookie   = "oauth_return_to"

	ErrInvalidJSON         = "Invalid JSON body"
	ErrInvalidID           = "Invalid id"
	ErrUnauthorized        = "Unauthorized"
	ErrForbidden           = "Forbidden"
	ErrInternalServerError = "Internal server error"
	ErrTooManyRequests     = "Too many requests, please try again later"
)
