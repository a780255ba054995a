package internal

const (
	COOKIE_ACCESS_TOKEN_NAME = "servicenova_access_token"
	COOKIE_REDIRECT_NAME     = "servicenova_redirect"
	COOKIE_ROLE_SESSION_NAME = "servicenova_role"
)
