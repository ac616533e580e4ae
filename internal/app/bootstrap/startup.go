// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	groupstore "github.com/lumenarts/lumenhub/internal/app/store/workinggroups"
	poststore "github.com/lumenarts/lumenhub/internal/app/store/posts"
	threadstore "github.com/lumenarts/lumenhub/internal/app/store/threads"
	userstore "github.com/lumenarts/lumenhub/internal/app/store/users"
	"github.com/lumenarts/lumenhub/internal/app/system/tasks"
	"github.com/lumenarts/lumenhub/internal/app/system/trash"
	"github.com/lumenarts/lumenhub/internal/domain/models"
)

// Package-level state shared between Startup, BuildHandler, and
// Shutdown. WAFFLE passes DBDeps by value, so anything built after
// ConnectDB lives here.
var (
	trashSvc   *trash.Service
	taskRunner *tasks.Runner
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// It bootstraps the admin account, wires the trash service, and starts
// the retention sweeper.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SuperAdminEmail != "" {
		if err := ensureSuperAdmin(ctx, deps, appCfg.SuperAdminEmail, appCfg.SuperAdminName, logger); err != nil {
			return err
		}
	}

	db := deps.MongoDatabase

	// A nil *drive.Client must stay a nil interface inside the service.
	var driveBackend trash.Drive
	if deps.Drive != nil {
		driveBackend = deps.Drive
	}

	trashSvc = trash.New(
		groupstore.New(db),
		threadstore.New(db),
		poststore.New(db),
		deps.Files,
		driveBackend,
		logger,
	)

	taskRunner = tasks.NewRunner(logger, tasks.RetentionSweepJob(trashSvc))
	taskRunner.Start(context.Background())

	return nil
}

// ensureSuperAdmin promotes an existing user to admin, or creates the
// account when it does not exist yet. Keeps a deployment from locking
// itself out.
func ensureSuperAdmin(ctx context.Context, deps DBDeps, email, name string, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	u, err := users.GetByEmail(ctx, email)
	if err == nil {
		if u.Role == models.RoleAdmin {
			return nil
		}
		if err := users.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
			return err
		}
		logger.Info("promoted existing user to admin", zap.String("user_id", u.ID.Hex()))
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	created, err := users.Create(ctx, models.User{
		FullName: name,
		Email:    email,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return err
	}
	logger.Info("created admin user", zap.String("user_id", created.ID.Hex()))
	return nil
}
