// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"
	"time"

	auditlogfeature "github.com/dalemusser/municipio/internal/app/features/auditlog"
	backupsfeature "github.com/dalemusser/municipio/internal/app/features/backups"
	departmentsfeature "github.com/dalemusser/municipio/internal/app/features/departments"
	errorsfeature "github.com/dalemusser/municipio/internal/app/features/errors"
	healthfeature "github.com/dalemusser/municipio/internal/app/features/health"
	loginfeature "github.com/dalemusser/municipio/internal/app/features/login"
	logoutfeature "github.com/dalemusser/municipio/internal/app/features/logout"
	organigramfeature "github.com/dalemusser/municipio/internal/app/features/organigram"
	populationfeature "github.com/dalemusser/municipio/internal/app/features/population"
	requestsfeature "github.com/dalemusser/municipio/internal/app/features/requests"
	sectoradminfeature "github.com/dalemusser/municipio/internal/app/features/sectoradmin"
	sectorsfeature "github.com/dalemusser/municipio/internal/app/features/sectors"
	settingsfeature "github.com/dalemusser/municipio/internal/app/features/settings"
	userinfofeature "github.com/dalemusser/municipio/internal/app/features/userinfo"
	usersfeature "github.com/dalemusser/municipio/internal/app/features/users"
	"github.com/dalemusser/municipio/internal/app/store/audit"
	"github.com/dalemusser/municipio/internal/app/store/queries/sectorcomplete"
	requeststore "github.com/dalemusser/municipio/internal/app/store/requests"
	sectorstore "github.com/dalemusser/municipio/internal/app/store/sectors"
	userstore "github.com/dalemusser/municipio/internal/app/store/users"
	"github.com/dalemusser/municipio/internal/app/system/auditlog"
	"github.com/dalemusser/municipio/internal/app/system/auth"
	"github.com/dalemusser/municipio/internal/app/system/authz"
	"github.com/dalemusser/municipio/internal/app/system/metrics"
	"github.com/dalemusser/municipio/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Public form submissions allowed per client IP per minute.
const submissionsPerMinute = 5

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// The public site reads /setores, /organigrama and /site. The back-office
// signs in at /login and works under /admin: sector editors reach their own
// sector and its requests, everything else is admin-only.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on each request, so role changes and disabled
	// accounts take effect immediately.
	users := userstore.New(db)
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	proxies, err := ratelimit.ParseTrustedProxies(appCfg.TrustedProxies)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(proxies.Middleware)
	r.Use(sessionMgr.LoadSessionUser)

	// Operations
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", metrics.Handler())

	// Locally stored photos. S3 objects are served by the bucket.
	if appCfg.StorageType == "" || appCfg.StorageType == "local" {
		prefix := "/" + strings.Trim(appCfg.StorageLocalURL, "/")
		r.Handle(prefix+"/*", fileserver.Handler(prefix, appCfg.StorageLocalPath))
	}

	// Public site
	sectorsHandler := sectorsfeature.NewHandler(
		sectorcomplete.FromDB(db, logger),
		sectorstore.New(db),
		requeststore.New(db),
		errLog, logger,
	)
	sectorsHandler.Submissions = ratelimit.New(submissionsPerMinute, time.Minute)
	r.Mount("/setores", sectorsfeature.Routes(sectorsHandler))

	organigramHandler := organigramfeature.NewHandler(db, deps.Objects, errLog, logger)
	r.Mount("/organigrama", organigramfeature.PublicRoutes(organigramHandler))

	settingsHandler := settingsfeature.NewHandler(db, errLog, logger)
	settingsHandler.Audit = auditLog
	r.Route("/site", settingsHandler.MountPublicRoutes)

	// Authentication
	loginHandler := loginfeature.NewHandler(users, sessionMgr, ratelimit.NewLoginLimiter(), errLog, logger)
	loginHandler.Audit = auditLog
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	logoutHandler.Audit = auditLog
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	r.Mount("/me", userinfofeature.Routes(userinfofeature.NewHandler()))

	// Back-office
	r.Route("/admin", func(r chi.Router) {
		// Sector editors and admins; per-sector checks happen in the handlers.
		r.Group(func(r chi.Router) {
			r.Use(sessionMgr.RequireRole(authz.ValidRole))

			sectorAdminHandler := sectoradminfeature.NewHandler(db, errLog, logger)
			r.Mount("/setores", sectoradminfeature.Routes(sectorAdminHandler))

			requestsHandler := requestsfeature.NewHandler(db, errLog, logger)
			requestsHandler.Audit = auditLog
			r.Mount("/solicitacoes", requestsfeature.Routes(requestsHandler))
		})

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(sessionMgr.RequireRole(authz.IsAdmin))

			populationHandler := populationfeature.NewHandler(db, appCfg.MunicipalAreaKm2, errLog, logger)
			r.Mount("/populacao", populationfeature.Routes(populationHandler))

			r.Mount("/organigrama", organigramfeature.Routes(organigramHandler))

			departmentsHandler := departmentsfeature.NewHandler(db, errLog, logger)
			r.Mount("/departamentos", departmentsfeature.Routes(departmentsHandler))

			usersHandler := usersfeature.NewHandler(db, errLog, logger)
			usersHandler.Audit = auditLog
			r.Mount("/utilizadores", usersfeature.Routes(usersHandler))

			backupsHandler := backupsfeature.NewHandler(deps.Archives, errLog, logger)
			backupsHandler.Audit = auditLog
			r.Mount("/backups", backupsfeature.Routes(backupsHandler))

			r.Route("/configuracoes", settingsHandler.MountRoutes)

			auditHandler := auditlogfeature.NewHandler(db, errLog, logger)
			r.Mount("/auditoria", auditlogfeature.Routes(auditHandler))
		})
	})

	return r, nil
}
