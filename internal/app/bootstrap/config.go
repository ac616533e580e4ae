// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for LumenHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: LUMENHUB_MONGO_URI, LUMENHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "lumenhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "lumenhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Attachment object storage
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads/attachments", Desc: "Local storage path for uploaded attachments"},
	{Name: "storage_local_url", Default: "/files/attachments", Desc: "URL prefix for serving local files"},
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "attachments/", Desc: "S3 key prefix"},
	{Name: "storage_cf_url", Default: "", Desc: "CloudFront distribution URL"},

	// Shared drive integration
	{Name: "drive_credentials_file", Default: "", Desc: "Path to the drive service account credentials JSON (blank disables drive features)"},
	{Name: "drive_root_folder_id", Default: "", Desc: "Drive folder that holds all working-group folders"},

	// Retention cleanup
	{Name: "cleanup_secret", Default: "", Desc: "Shared secret for the external scheduler calling the cleanup endpoint"},

	// Contact form rate limiting
	{Name: "contact_rate_limit", Default: 5, Desc: "Max contact messages per IP per window"},
	{Name: "contact_rate_window", Default: "1h", Desc: "Contact rate limit window (e.g., 1h, 30m)"},

	// SuperAdmin bootstrap
	{Name: "superadmin_email", Default: "", Desc: "Email of the admin user (promotes/creates on startup)"},
	{Name: "superadmin_name", Default: "Administrator", Desc: "Display name used when the admin user is created"},

	// Base URL for invitation links
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for links in invitation emails"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, LUMENHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "LUMENHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),
		StorageS3Region:  appValues.String("storage_s3_region"),
		StorageS3Bucket:  appValues.String("storage_s3_bucket"),
		StorageS3Prefix:  appValues.String("storage_s3_prefix"),
		StorageCFURL:     appValues.String("storage_cf_url"),

		DriveCredentialsFile: appValues.String("drive_credentials_file"),
		DriveRootFolderID:    appValues.String("drive_root_folder_id"),

		CleanupSecret: appValues.String("cleanup_secret"),

		ContactRateLimit:  appValues.Int("contact_rate_limit"),
		ContactRateWindow: appValues.Duration("contact_rate_window", time.Hour),

		SuperAdminEmail: appValues.String("superadmin_email"),
		SuperAdminName:  appValues.String("superadmin_name"),

		BaseURL: appValues.String("base_url"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// LumenHub validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect, and requires the drive
// root folder when drive credentials are configured.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.DriveCredentialsFile != "" && appCfg.DriveRootFolderID == "" {
		return fmt.Errorf("drive_credentials_file is set but drive_root_folder_id is empty")
	}

	if appCfg.StorageType == "s3" && appCfg.StorageS3Bucket == "" {
		return fmt.Errorf("storage_type is 's3' but storage_s3_bucket is empty")
	}

	if appCfg.ContactRateLimit <= 0 {
		return fmt.Errorf("contact_rate_limit must be positive, got %d", appCfg.ContactRateLimit)
	}

	return nil
}
