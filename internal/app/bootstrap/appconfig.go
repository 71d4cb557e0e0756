// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (MUNICIPIO_*), configuration
// files, or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// covers the framework-level settings: ports, TLS, logging, CORS and body
// size limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: municipio-session)
	SessionDomain string // Cookie domain (blank means current host)
	SessionMaxAge time.Duration

	// Object storage for organigram photos and backup archives
	StorageType      string // "local" or "s3"
	StorageLocalPath string // Local storage directory (e.g., "./uploads")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/ficheiros")

	// S3 configuration (only used if StorageType is "s3")
	StorageS3Region    string
	StorageS3Bucket    string
	StorageS3Prefix    string
	StorageS3PublicURL string // Public base URL (bucket website or CDN)
	StorageS3AccessKey string // Blank uses the default AWS credential chain
	StorageS3SecretKey string

	// Backups
	BackupSchedule string // Five-field cron spec; blank disables scheduled backups
	BackupPrefix   string // Object key prefix for archives

	// Bootstrap superadmin, created on startup when the email is unused
	AdminEmail    string
	AdminPassword string

	// Audit trail: "all", "db", "log" or "off" per category
	AuditLogAuth  string
	AuditLogAdmin string

	// Municipal area used for population density
	MunicipalAreaKm2 float64

	// Reverse proxies allowed to report the client address (IPs or CIDRs)
	TrustedProxies string

	// Per-request deadlines for remote-store calls (zero keeps the default)
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
