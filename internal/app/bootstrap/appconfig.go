// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, and CORS. AppConfig is everything specific
// to LumenHub: database connection, sessions, attachment storage, the
// shared drive, and the retention cleanup endpoint.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: lumenhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Attachment object storage configuration
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./uploads/attachments")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files/attachments")
	StorageS3Region  string // AWS region (only used if StorageType is "s3")
	StorageS3Bucket  string // S3 bucket name
	StorageS3Prefix  string // Key prefix (e.g., "attachments/")
	StorageCFURL     string // CloudFront distribution URL for public links

	// Shared drive configuration for working-group folders. Left blank,
	// drive features (group folders, drive-backed attachments) are off.
	DriveCredentialsFile string // Path to the service account credentials JSON
	DriveRootFolderID    string // Folder that holds all working-group folders

	// Retention cleanup endpoint
	CleanupSecret string // Shared secret for the scheduler calling /cleanup

	// Contact form rate limiting
	ContactRateLimit  int           // Max contact messages per IP per window
	ContactRateWindow time.Duration // Fixed window size

	// SuperAdmin bootstrap
	SuperAdminEmail string // Email of the admin user (promotes/creates on startup)
	SuperAdminName  string // Display name used when the admin user is created

	// Base URL for links in invitation emails
	BaseURL string // e.g., "https://hub.lumenarts.org" or "http://localhost:3000"
}
