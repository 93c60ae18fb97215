package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`

	// Zakat backend API
	BackendURL        string `envconfig:"BACKEND_URL" default:"http://localhost:3000/api"`
	BackendTimeoutSec uint   `envconfig:"BACKEND_TIMEOUT_SEC" default:"30"`

	// Optional JWKS endpoint used to verify backend-issued credentials.
	// Credentials are treated as opaque when unset.
	JWKSURL string `envconfig:"JWKS_URL"`

	// Session storage: "cookie" keeps the whole session in the encrypted
	// cookie, "postgres" keeps only a session id there.
	SessionStore     string `envconfig:"SESSION_STORE" default:"cookie"`
	DatabaseURL      string `envconfig:"DATABASE_URL"`
	DatabaseMaxConns int32  `envconfig:"DATABASE_MAX_CONNS" default:"8"`
	CookieName       string `envconfig:"SESSION_COOKIE_NAME" default:"zakat_session"`
	SessionMaxAgeSec int    `envconfig:"SESSION_MAX_AGE_SEC" default:"86400"` // 1 day
	CookieSecure     bool   `envconfig:"COOKIE_SECURE" default:"false"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes
	CSRFKey        string `envconfig:"CSRF_KEY"`         // 32 bytes, CSRF protection is off when empty

	// View timing
	RegisterRedirectDelaySec uint `envconfig:"REGISTER_REDIRECT_DELAY_SEC" default:"3"`
	UploadCloseDelaySec      uint `envconfig:"UPLOAD_CLOSE_DELAY_SEC" default:"2"`
	LogoutDelayMS            uint `envconfig:"LOGOUT_DELAY_MS" default:"1500"`
	StatusPollSec            uint `envconfig:"STATUS_POLL_SEC" default:"0"`

	MaxUploadMB  int64 `envconfig:"MAX_UPLOAD_MB" default:"32"`
	DocumentRows int   `envconfig:"DOCUMENT_ROWS" default:"3"`
}

const (
	SessionStoreCookie   = "cookie"
	SessionStorePostgres = "postgres"
)
