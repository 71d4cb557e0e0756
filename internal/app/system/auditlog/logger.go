// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/municipio/internal/app/store/audit"
	"github.com/dalemusser/municipio/internal/app/system/authz"
	"github.com/dalemusser/municipio/internal/app/system/ratelimit"
	"github.com/dalemusser/municipio/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Settings for Config.Auth and Config.Admin.
const (
	All = "all" // MongoDB + zap
	DB  = "db"
	Log = "log"
	Off = "off"
)

// ValidSetting reports whether s is one of the settings above.
func ValidSetting(s string) bool {
	switch s {
	case All, DB, Log, Off:
		return true
	}
	return false
}

// Config holds audit logging configuration.
type Config struct {
	// Auth controls sign-in and sign-out events.
	Auth string
	// Admin controls back-office changes (users, backups, settings, requests).
	Admin string
}

// Logger records audit events to MongoDB (via audit.Store) and zap.
// A nil Logger is a no-op.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.SectorID != nil {
		fields = append(fields, zap.String("setor_id", event.SectorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records event according to the setting for its category. Store
// failures are logged and never reach the caller.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := All
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	}
	if setting == Off {
		return
	}
	if setting != DB {
		l.logToZap(event)
	}
	if setting != Log {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// event fills the request context and the signed-in actor.
func event(r *http.Request, category, eventType string, success bool) audit.Event {
	e := audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
	if role, _, id, ok := authz.UserCtx(r); ok && !id.IsZero() {
		e.ActorID = &id
		e.Details = map[string]string{"actor_role": role}
	}
	return e
}

func detail(e *audit.Event, k, v string) {
	if e.Details == nil {
		e.Details = map[string]string{}
	}
	e.Details[k] = v
}

// --- Authentication Events ---

// LoginSuccess logs a successful sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	e := event(r, audit.CategoryAuth, audit.EventLoginSuccess, true)
	e.UserID = &userID
	detail(&e, "email", email)
	l.Log(ctx, e)
}

// LoginFailed logs a rejected sign-in. Unknown email, wrong password and
// disabled accounts are not told apart.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, email string) {
	e := event(r, audit.CategoryAuth, audit.EventLoginFailed, false)
	e.FailureReason = "invalid credentials"
	detail(&e, "email", email)
	l.Log(ctx, e)
}

// LoginRateLimited logs a sign-in refused by the rate limiter.
func (l *Logger) LoginRateLimited(ctx context.Context, r *http.Request, email string) {
	e := event(r, audit.CategoryAuth, audit.EventLoginRateLimited, false)
	e.FailureReason = "rate limited"
	detail(&e, "email", email)
	l.Log(ctx, e)
}

// Logout logs a sign-out by the current user.
func (l *Logger) Logout(ctx context.Context, r *http.Request) {
	e := event(r, audit.CategoryAuth, audit.EventLogout, true)
	e.UserID = e.ActorID
	l.Log(ctx, e)
}

// --- Admin Events ---

// UserCreated logs when an admin creates a user.
func (l *Logger) UserCreated(ctx context.Context, r *http.Request, targetUserID primitive.ObjectID, role string) {
	e := event(r, audit.CategoryAdmin, audit.EventUserCreated, true)
	e.UserID = &targetUserID
	detail(&e, "role", role)
	l.Log(ctx, e)
}

// UserUpdated logs when an admin updates a user. fieldsChanged is a
// comma-separated list of field names.
func (l *Logger) UserUpdated(ctx context.Context, r *http.Request, targetUserID primitive.ObjectID, fieldsChanged string) {
	e := event(r, audit.CategoryAdmin, audit.EventUserUpdated, true)
	e.UserID = &targetUserID
	detail(&e, "fields_changed", fieldsChanged)
	l.Log(ctx, e)
}

// UserDeleted logs when an admin deletes a user.
func (l *Logger) UserDeleted(ctx context.Context, r *http.Request, targetUserID primitive.ObjectID, role string) {
	e := event(r, audit.CategoryAdmin, audit.EventUserDeleted, true)
	e.UserID = &targetUserID
	detail(&e, "role", role)
	l.Log(ctx, e)
}

// BackupCreated logs a manual backup run, failed or not.
func (l *Logger) BackupCreated(ctx context.Context, r *http.Request, b models.Backup) {
	e := event(r, audit.CategoryAdmin, audit.EventBackupCreated, b.State == models.BackupCompleted)
	e.FailureReason = b.Error
	detail(&e, "backup_id", b.ID.Hex())
	detail(&e, "ficheiro", b.FileName)
	l.Log(ctx, e)
}

// BackupDeleted logs when an admin removes a backup.
func (l *Logger) BackupDeleted(ctx context.Context, r *http.Request, backupID primitive.ObjectID) {
	e := event(r, audit.CategoryAdmin, audit.EventBackupDeleted, true)
	detail(&e, "backup_id", backupID.Hex())
	l.Log(ctx, e)
}

// SettingsUpdated logs a save of the site settings.
func (l *Logger) SettingsUpdated(ctx context.Context, r *http.Request) {
	l.Log(ctx, event(r, audit.CategoryAdmin, audit.EventSettingsUpdated, true))
}

// RequestStateChanged logs a state change of a citizen request.
func (l *Logger) RequestStateChanged(ctx context.Context, r *http.Request, req models.ServiceRequest) {
	e := event(r, audit.CategoryAdmin, audit.EventRequestStateChanged, true)
	e.SectorID = &req.SectorID
	detail(&e, "request_id", req.ID.Hex())
	detail(&e, "estado", req.State)
	l.Log(ctx, e)
}

// RequestDeleted logs when a citizen request is removed.
func (l *Logger) RequestDeleted(ctx context.Context, r *http.Request, req models.ServiceRequest) {
	e := event(r, audit.CategoryAdmin, audit.EventRequestDeleted, true)
	e.SectorID = &req.SectorID
	detail(&e, "request_id", req.ID.Hex())
	l.Log(ctx, e)
}
