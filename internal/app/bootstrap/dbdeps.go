// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lumenarts/lumenhub/internal/app/system/drive"
)

// DBDeps holds database and back-end dependencies for the app.
// Built in ConnectDB and passed to the later lifecycle hooks.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Files is the attachment object store (local disk or S3).
	Files storage.Store

	// Drive is the shared drive client for working-group folders.
	// Nil when drive integration is not configured.
	Drive *drive.Client
}
