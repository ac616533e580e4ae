// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/app/system/drive"
)

// ConnectDB establishes the MongoDB connection and builds the storage
// and drive backends the app depends on.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return DBDeps{}, fmt.Errorf("ping MongoDB: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}

	deps.Files, err = buildStorage(ctx, appCfg)
	if err != nil {
		return DBDeps{}, fmt.Errorf("init attachment storage: %w", err)
	}
	logger.Info("attachment storage ready", zap.String("type", appCfg.StorageType))

	if appCfg.DriveCredentialsFile != "" {
		creds, err := os.ReadFile(appCfg.DriveCredentialsFile)
		if err != nil {
			return DBDeps{}, fmt.Errorf("read drive credentials: %w", err)
		}
		deps.Drive, err = drive.NewClient(ctx, creds, logger)
		if err != nil {
			return DBDeps{}, fmt.Errorf("init drive client: %w", err)
		}
		logger.Info("drive client ready", zap.String("root_folder", appCfg.DriveRootFolderID))
	} else {
		logger.Info("drive integration disabled (no credentials configured)")
	}

	return deps, nil
}

func buildStorage(ctx context.Context, appCfg AppConfig) (storage.Store, error) {
	switch appCfg.StorageType {
	case "s3":
		return storage.NewS3(ctx, storage.S3Config{
			Region:        appCfg.StorageS3Region,
			Bucket:        appCfg.StorageS3Bucket,
			Prefix:        appCfg.StorageS3Prefix,
			CloudFrontURL: appCfg.StorageCFURL,
		})
	default:
		return storage.NewLocal(storage.LocalConfig{
			BasePath: appCfg.StorageLocalPath,
			BaseURL:  appCfg.StorageLocalURL,
		})
	}
}

// EnsureSchema creates the indexes the app relies on.
//
// The unique indexes back the duplicate-slug and duplicate-email errors
// the stores translate, and the TTL index lets the server expire rate
// counter windows on its own.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	type target struct {
		coll    string
		indexes []mongo.IndexModel
	}

	targets := []target{
		{
			coll: "users",
			indexes: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "email_ci", Value: 1}},
					Options: options.Index().SetName("idx_users_email_ci").SetUnique(true),
				},
			},
		},
		{
			coll: "working_groups",
			indexes: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "slug", Value: 1}},
					Options: options.Index().SetName("idx_groups_slug").SetUnique(true),
				},
				{
					Keys:    bson.D{{Key: "deleted_at", Value: 1}},
					Options: options.Index().SetName("idx_groups_deleted_at").SetSparse(true),
				},
			},
		},
		{
			coll: "threads",
			indexes: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "slug", Value: 1}},
					Options: options.Index().SetName("idx_threads_slug").SetUnique(true),
				},
				{
					Keys:    bson.D{{Key: "working_groups", Value: 1}},
					Options: options.Index().SetName("idx_threads_working_groups"),
				},
				{
					Keys:    bson.D{{Key: "deleted_at", Value: 1}},
					Options: options.Index().SetName("idx_threads_deleted_at").SetSparse(true),
				},
			},
		},
		{
			coll: "posts",
			indexes: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "thread_id", Value: 1}, {Key: "created_at", Value: 1}},
					Options: options.Index().SetName("idx_posts_thread_created"),
				},
				{
					Keys:    bson.D{{Key: "deleted_at", Value: 1}},
					Options: options.Index().SetName("idx_posts_deleted_at").SetSparse(true),
				},
			},
		},
		{
			coll: "publications",
			indexes: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "slug", Value: 1}},
					Options: options.Index().SetName("idx_publications_slug").SetUnique(true),
				},
			},
		},
		{
			coll: "invitations",
			indexes: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "email_ci", Value: 1}, {Key: "created_at", Value: -1}},
					Options: options.Index().SetName("idx_invitations_email"),
				},
			},
		},
		{
			coll: "rate_counters",
			indexes: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "expires_at", Value: 1}},
					Options: options.Index().SetName("idx_rate_counters_ttl").SetExpireAfterSeconds(0),
				},
			},
		},
	}

	for _, tgt := range targets {
		if _, err := db.Collection(tgt.coll).Indexes().CreateMany(ctx, tgt.indexes); err != nil {
			return fmt.Errorf("create indexes on %s: %w", tgt.coll, err)
		}
	}

	logger.Info("schema ready")
	return nil
}
