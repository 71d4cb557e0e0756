// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	"github.com/dalemusser/municipio/internal/app/store/audit"
	"github.com/dalemusser/municipio/internal/app/system/respond"
	"github.com/dalemusser/municipio/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const pageSize = 50

// ServeList handles GET /admin/auditoria.
//
// Filters: categoria, tipo, utilizador (actor or affected user id),
// de and ate (YYYY-MM-DD, inclusive), pagina.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	category := query.Get(r, "categoria")
	eventType := query.Get(r, "tipo")
	startDate := query.Get(r, "de")
	endDate := query.Get(r, "ate")

	page := 1
	if p, err := strconv.Atoi(query.Get(r, "pagina")); err == nil && p > 0 {
		page = p
	}

	filter := audit.QueryFilter{
		Category:  category,
		EventType: eventType,
		Limit:     pageSize,
		Offset:    int64((page - 1) * pageSize),
	}
	if category != "" {
		if _, ok := audit.EventTypes[category]; !ok {
			uierrors.RenderBadRequest(w, r, "Unknown category.")
			return
		}
	}
	if u := query.Get(r, "utilizador"); u != "" {
		id, err := primitive.ObjectIDFromHex(u)
		if err != nil {
			uierrors.RenderBadRequest(w, r, "Invalid user id.")
			return
		}
		filter.UserID = &id
	}
	if startDate != "" {
		t, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			uierrors.RenderBadRequest(w, r, "Dates must be YYYY-MM-DD.")
			return
		}
		filter.StartTime = &t
	}
	if endDate != "" {
		t, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			uierrors.RenderBadRequest(w, r, "Dates must be YYYY-MM-DD.")
			return
		}
		// End of day
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndTime = &endOfDay
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err, "The audit trail could not be loaded.")
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events failed", err, "The audit trail could not be loaded.")
		return
	}

	names := h.resolveNames(ctx, events)
	items := make([]listItem, 0, len(events))
	for _, e := range events {
		item := listItem{
			ID:        e.ID.Hex(),
			Timestamp: e.Timestamp,
			Category:  e.Category,
			EventType: e.EventType,
			IP:        e.IP,
			Success:   e.Success,
			Reason:    e.FailureReason,
			Details:   e.Details,
		}
		if e.ActorID != nil {
			item.ActorName = nameOr(names, *e.ActorID)
		}
		if e.UserID != nil {
			item.TargetName = nameOr(names, *e.UserID)
		}
		items = append(items, item)
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	respond.JSON(w, http.StatusOK, listResponse{
		Items:      items,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	})
}

// resolveNames batch-loads the user names referenced by events. A failure
// leaves ids unresolved.
func (h *Handler) resolveNames(ctx context.Context, events []audit.Event) map[primitive.ObjectID]string {
	seen := make(map[primitive.ObjectID]struct{})
	for _, e := range events {
		if e.ActorID != nil {
			seen[*e.ActorID] = struct{}{}
		}
		if e.UserID != nil {
			seen[*e.UserID] = struct{}{}
		}
	}
	ids := make([]primitive.ObjectID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	names, err := h.Users.Names(ctx, ids)
	if err != nil {
		h.Log.Warn("failed to fetch user names for audit log", zap.Error(err))
		return nil
	}
	return names
}

func nameOr(names map[primitive.ObjectID]string, id primitive.ObjectID) string {
	if name := strings.TrimSpace(names[id]); name != "" {
		return name
	}
	return id.Hex()
}

// ServeEventTypes handles GET /admin/auditoria/tipos for the filter form.
func (h *Handler) ServeEventTypes(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{"categories": allCategories()})
}
