// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/municipio/internal/app/system/auditlog"
	"github.com/dalemusser/municipio/internal/app/system/demographics"
	"github.com/dalemusser/municipio/internal/app/system/ratelimit"
	"github.com/dalemusser/municipio/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the portal.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: MUNICIPIO_MONGO_URI, MUNICIPIO_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "municipio", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "municipio-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "12h", Desc: "Session lifetime (e.g., 12h, 30m)"},

	// Object storage
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded files"},
	{Name: "storage_local_url", Default: "/ficheiros", Desc: "URL prefix for serving local files"},

	// S3 configuration
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "", Desc: "S3 key prefix"},
	{Name: "storage_s3_public_url", Default: "", Desc: "Public base URL for stored objects"},
	{Name: "storage_s3_access_key", Default: "", Desc: "S3 access key (blank uses the AWS credential chain)"},
	{Name: "storage_s3_secret_key", Default: "", Desc: "S3 secret key"},

	// Backups
	{Name: "backup_schedule", Default: "", Desc: "Cron spec for scheduled backups (blank disables)"},
	{Name: "backup_prefix", Default: "backups", Desc: "Object key prefix for backup archives"},

	// Bootstrap superadmin
	{Name: "admin_email", Default: "", Desc: "Email of the bootstrap superadmin (created on startup when unused)"},
	{Name: "admin_password", Default: "", Desc: "Password of the bootstrap superadmin"},

	// Audit trail
	{Name: "audit_log_auth", Default: "all", Desc: "Sign-in events: all, db, log or off"},
	{Name: "audit_log_admin", Default: "all", Desc: "Back-office changes: all, db, log or off"},

	// Demographics
	{Name: "municipal_area_km2", Default: "9532", Desc: "Municipal area in km² used for population density"},

	// Reverse proxy
	{Name: "trusted_proxies", Default: "", Desc: "Comma-separated proxy IPs or CIDRs whose X-Forwarded-For is believed (blank trusts none)"},

	// Timeouts
	{Name: "timeout_short", Default: "", Desc: "Deadline for single-row reads (e.g., 5s)"},
	{Name: "timeout_medium", Default: "", Desc: "Deadline for list reads and writes (e.g., 10s)"},
	{Name: "timeout_long", Default: "", Desc: "Deadline for multi-step writes (e.g., 30s)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges, in order of precedence:
// flags > env (MUNICIPIO_* for app, WAFFLE_* for core) > config files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "MUNICIPIO", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	area, err := parseArea(appValues.String("municipal_area_km2"))
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 12*time.Hour),

		StorageType:      strings.ToLower(appValues.String("storage_type")),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		StorageS3Region:    appValues.String("storage_s3_region"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3Prefix:    appValues.String("storage_s3_prefix"),
		StorageS3PublicURL: appValues.String("storage_s3_public_url"),
		StorageS3AccessKey: appValues.String("storage_s3_access_key"),
		StorageS3SecretKey: appValues.String("storage_s3_secret_key"),

		BackupSchedule: strings.TrimSpace(appValues.String("backup_schedule")),
		BackupPrefix:   appValues.String("backup_prefix"),

		AdminEmail:    strings.ToLower(strings.TrimSpace(appValues.String("admin_email"))),
		AdminPassword: appValues.String("admin_password"),

		AuditLogAuth:  strings.ToLower(strings.TrimSpace(appValues.String("audit_log_auth"))),
		AuditLogAdmin: strings.ToLower(strings.TrimSpace(appValues.String("audit_log_admin"))),

		MunicipalAreaKm2: area,

		TrustedProxies: strings.TrimSpace(appValues.String("trusted_proxies")),

		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),
	}
	return coreCfg, appCfg, nil
}

func parseArea(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return demographics.DefaultAreaKm2, nil
	}
	area, err := strconv.ParseFloat(s, 64)
	if err != nil || area <= 0 {
		return 0, fmt.Errorf("municipal_area_km2 must be a positive number, got %q", s)
	}
	return area, nil
}

// ValidateConfig performs app-specific config validation.
//
// It catches configuration errors before anything connects: the Mongo URI,
// the storage backend, the backup schedule and the audit settings.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	switch appCfg.StorageType {
	case "", "local":
		if appCfg.StorageLocalPath == "" {
			return fmt.Errorf("storage_local_path is required when storage_type is 'local'")
		}
	case "s3":
		if appCfg.StorageS3Bucket == "" {
			return fmt.Errorf("storage_s3_bucket is required when storage_type is 's3'")
		}
		if (appCfg.StorageS3AccessKey == "") != (appCfg.StorageS3SecretKey == "") {
			return fmt.Errorf("storage_s3_access_key and storage_s3_secret_key must be set together")
		}
	default:
		return fmt.Errorf("storage_type must be 'local' or 's3', got %q", appCfg.StorageType)
	}

	if appCfg.BackupSchedule != "" {
		if err := workers.ParseSchedule(appCfg.BackupSchedule); err != nil {
			return err
		}
	}

	if _, err := ratelimit.ParseTrustedProxies(appCfg.TrustedProxies); err != nil {
		return err
	}

	if !auditlog.ValidSetting(appCfg.AuditLogAuth) {
		return fmt.Errorf("audit_log_auth must be all, db, log or off, got %q", appCfg.AuditLogAuth)
	}
	if !auditlog.ValidSetting(appCfg.AuditLogAdmin) {
		return fmt.Errorf("audit_log_admin must be all, db, log or off, got %q", appCfg.AuditLogAdmin)
	}

	if appCfg.AdminEmail != "" && appCfg.AdminPassword == "" {
		return fmt.Errorf("admin_password is required when admin_email is set")
	}
	if coreCfg != nil && coreCfg.Env == "prod" && strings.HasPrefix(appCfg.SessionKey, "dev-only") {
		return fmt.Errorf("session_key must be changed in production")
	}
	return nil
}
