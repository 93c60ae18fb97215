package internal

const (
	COOKIE_REGISTRATION_NAME = "zakat_registration"
	COOKIE_REDIRECT_NAME     = "zakat_redirect"
)
