package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	DatabaseSchema  string `envconfig:"DATABASE_SCHEMA" default:"servicenova"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`
	MaxUploadBytes  int64  `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"` // 10 MiB

	// Cognito Auth
	CognitoUserPoolID string `envconfig:"COGNITO_USER_POOL_ID"`
	CognitoClientID   string `envconfig:"COGNITO_CLIENT_ID"`
	CognitoIssuerURL  string `envconfig:"COGNITO_ISSUER_URL"`
	CognitoAdminGroup string `envconfig:"COGNITO_ADMIN_GROUP" default:"admin"`

	// Document storage, "s3" or "supabase"
	DocumentBackend    string `envconfig:"DOCUMENT_BACKEND" default:"s3"`
	S3BucketName       string `envconfig:"S3_BUCKET_NAME" default:"provider-documents"`
	S3PublicBaseURL    string `envconfig:"S3_PUBLIC_BASE_URL"`
	SupabaseProjectID  string `envconfig:"SUPABASE_PROJECT_ID"`
	SupabaseAPIKey     string `envconfig:"SUPABASE_API_KEY"`
	SupabaseBucketName string `envconfig:"SUPABASE_BUCKET_NAME" default:"provider_documents"`

	// Interview notifications
	ResendAPIKey  string `envconfig:"RESEND_API_KEY"`
	ResendFrom    string `envconfig:"RESEND_FROM" default:"ServiceNova <info@servicenova.in>"`
	ResendBaseURL string `envconfig:"RESEND_BASE_URL" default:"https://api.resend.com"`

	MeetingBaseURL string `envconfig:"MEETING_BASE_URL" default:"https://meet.google.com"`

	// Auth Configuration
	RoleCacheTTLSec int `envconfig:"ROLE_CACHE_TTL_SEC" default:"60"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes
}
