// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	contactfeature "github.com/lumenarts/lumenhub/internal/app/features/contact"
	forumfeature "github.com/lumenarts/lumenhub/internal/app/features/forum"
	healthfeature "github.com/lumenarts/lumenhub/internal/app/features/health"
	invitationsfeature "github.com/lumenarts/lumenhub/internal/app/features/invitations"
	membersfeature "github.com/lumenarts/lumenhub/internal/app/features/members"
	moderationfeature "github.com/lumenarts/lumenhub/internal/app/features/moderation"
	publicationsfeature "github.com/lumenarts/lumenhub/internal/app/features/publications"
	workinggroupsfeature "github.com/lumenarts/lumenhub/internal/app/features/workinggroups"
	contactstore "github.com/lumenarts/lumenhub/internal/app/store/contact"
	invitationstore "github.com/lumenarts/lumenhub/internal/app/store/invitations"
	poststore "github.com/lumenarts/lumenhub/internal/app/store/posts"
	publicationstore "github.com/lumenarts/lumenhub/internal/app/store/publications"
	ratecounterstore "github.com/lumenarts/lumenhub/internal/app/store/ratecounters"
	threadstore "github.com/lumenarts/lumenhub/internal/app/store/threads"
	userstore "github.com/lumenarts/lumenhub/internal/app/store/users"
	groupstore "github.com/lumenarts/lumenhub/internal/app/store/workinggroups"
	"github.com/lumenarts/lumenhub/internal/app/system/auth"
	"github.com/lumenarts/lumenhub/internal/app/system/ratelimit"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE
// app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed. All endpoints are JSON; the
// session middleware only loads the user issued by the external identity
// service into context, and each feature decides its own authorization.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase

	groups := groupstore.New(db)
	threads := threadstore.New(db)
	posts := poststore.New(db)

	r := chi.NewRouter()

	// Loads SessionUser into context if signed in; available to all
	// handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Working groups, with drive folder provisioning when configured
	var folderCreator workinggroupsfeature.FolderCreator
	if deps.Drive != nil {
		folderCreator = deps.Drive
	}
	groupsHandler := workinggroupsfeature.NewHandler(groups, trashSvc, folderCreator, appCfg.DriveRootFolderID, logger)
	r.Mount("/working-groups", workinggroupsfeature.Routes(groupsHandler))

	// Discussion board
	forumHandler := forumfeature.NewHandler(threads, posts, groups, trashSvc, deps.Files, logger)
	r.Mount("/forum", forumfeature.Routes(forumHandler))

	// Moderation: restore, deleted-items view, retention cleanup
	moderationHandler := moderationfeature.NewHandler(trashSvc, appCfg.CleanupSecret, logger)
	r.Mount("/admin/moderation", moderationfeature.Routes(moderationHandler))

	// Publications
	publicationsHandler := publicationsfeature.NewHandler(publicationstore.New(db), logger)
	r.Mount("/publications", publicationsfeature.Routes(publicationsHandler))

	// Member directory
	membersHandler := membersfeature.NewHandler(userstore.New(db), logger)
	r.Mount("/members", membersfeature.Routes(membersHandler))

	// Invitations
	invitationsHandler := invitationsfeature.NewHandler(invitationstore.New(db), userstore.New(db), logger)
	r.Mount("/invitations", invitationsfeature.Routes(invitationsHandler))

	// Public contact form, rate limited per IP
	limiter := ratelimit.New(ratecounterstore.New(db), int64(appCfg.ContactRateLimit), appCfg.ContactRateWindow)
	contactHandler := contactfeature.NewHandler(contactstore.New(db), limiter, logger)
	r.Mount("/contact", contactfeature.Routes(contactHandler))

	return r, nil
}
