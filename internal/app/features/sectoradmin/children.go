// internal/app/features/sectoradmin/children.go
package sectoradmin

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"github.com/dalemusser/municipio/internal/app/system/inputval"
	"github.com/dalemusser/municipio/internal/app/system/listview"
	"github.com/dalemusser/municipio/internal/app/system/respond"
	"github.com/dalemusser/municipio/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// childRoutes serves one child collection of the sector in context. Every
// list includes inactive rows so they can be edited.
type childRoutes[T any, I input] struct {
	h    *Handler
	repo *tablestore.Store[T]
	set  *listview.Set[T]
}

func mountChild[T any, I input](r chi.Router, h *Handler, path string, repo *tablestore.Store[T]) {
	c := &childRoutes[T, I]{h: h, repo: repo, set: listview.NewSet[T](repo, false)}
	r.Get("/"+path, c.list)
	r.Post("/"+path, c.create)
	r.Put("/"+path+"/{id}", c.update)
	r.Delete("/"+path+"/{id}", c.delete)
}

func (c *childRoutes[T, I]) name() string { return c.repo.Table().Name }

func (c *childRoutes[T, I]) list(w http.ResponseWriter, r *http.Request) {
	sec := sectorFrom(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	snap := c.set.For(sec.ID).FetchAll(ctx)
	if snap.Err != nil {
		c.h.Log.Warn("list failed; serving last loaded rows",
			zap.String("collection", c.name()),
			zap.String("slug", sec.Slug),
			zap.Error(snap.Err))
	}
	respond.JSON(w, http.StatusOK, snap.View())
}

func (c *childRoutes[T, I]) decode(w http.ResponseWriter, r *http.Request) (bson.M, bool) {
	var in I
	if err := respond.Decode(w, r, &in); err != nil {
		uierrors.RenderBadRequest(w, r, err.Error())
		return nil, false
	}
	if res := inputval.Validate(in); res.HasErrors() {
		uierrors.RenderValidation(w, r, res)
		return nil, false
	}
	return in.fields(), true
}

func (c *childRoutes[T, I]) create(w http.ResponseWriter, r *http.Request) {
	sec := sectorFrom(r)
	doc, ok := c.decode(w, r)
	if !ok {
		return
	}
	doc["setor_id"] = sec.ID
	if af := c.repo.Table().ActiveField; af != "" {
		if _, set := doc[af]; !set {
			doc[af] = true
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	item, snap, err := c.set.For(sec.ID).Create(ctx, doc)
	if err != nil {
		c.h.writeErr(w, r, "create", c.name(), err)
		return
	}
	respond.JSON(w, http.StatusCreated, snap.WithItem(item))
}

func (c *childRoutes[T, I]) update(w http.ResponseWriter, r *http.Request) {
	sec := sectorFrom(r)
	id, ok := c.ownedID(w, r)
	if !ok {
		return
	}
	doc, ok := c.decode(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	item, snap, err := c.set.For(sec.ID).Update(ctx, id, doc)
	if err != nil {
		c.h.writeErr(w, r, "update", c.name(), err)
		return
	}
	respond.JSON(w, http.StatusOK, snap.WithItem(item))
}

func (c *childRoutes[T, I]) delete(w http.ResponseWriter, r *http.Request) {
	sec := sectorFrom(r)
	id, ok := c.ownedID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	snap, err := c.set.For(sec.ID).Delete(ctx, id)
	if err != nil {
		c.h.writeErr(w, r, "delete", c.name(), err)
		return
	}
	respond.JSON(w, http.StatusOK, snap.View())
}

// ownedID parses {id} and checks the row belongs to the sector in context.
func (c *childRoutes[T, I]) ownedID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid id.")
		return primitive.NilObjectID, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t := c.repo.Table()
	_, err = c.repo.FindOne(ctx, bson.M{"_id": id, t.ParentField: sectorFrom(r).ID})
	if errors.Is(err, tablestore.ErrNotFound) {
		uierrors.RenderNotFound(w, r, "Item not found.")
		return primitive.NilObjectID, false
	}
	if err != nil {
		c.h.writeErr(w, r, "load", t.Name, err)
		return primitive.NilObjectID, false
	}
	return id, true
}
