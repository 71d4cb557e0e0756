// internal/app/features/organigram/handler.go
package organigram

import (
	"context"
	"fmt"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	departmentstore "github.com/dalemusser/municipio/internal/app/store/departments"
	organigramstore "github.com/dalemusser/municipio/internal/app/store/organigram"
	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"github.com/dalemusser/municipio/internal/app/system/listview"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the organigram editor and the public chart.
type Handler struct {
	Members     *organigramstore.Store
	Departments *departmentstore.Store
	Objects     storage.Store
	Log         *zap.Logger
	ErrLog      *uierrors.ErrorLogger

	list *listview.Manager[models.OrganigramMember]
}

func NewHandler(db *mongo.Database, objects storage.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	members := organigramstore.New(db)
	return &Handler{
		Members:     members,
		Departments: departmentstore.New(db),
		Objects:     objects,
		Log:         logger,
		ErrLog:      errLog,
		list:        listview.NewManager[models.OrganigramMember](memberRepo{members}, tablestore.Query{}),
	}
}

// memberRepo lets the list view drive the organigram store, whose writes
// take typed rows and patches so the superior can be checked.
type memberRepo struct {
	*organigramstore.Store
}

func (m memberRepo) Create(ctx context.Context, row any) (models.OrganigramMember, error) {
	member, ok := row.(models.OrganigramMember)
	if !ok {
		return models.OrganigramMember{}, fmt.Errorf("organigram create: unexpected row type %T", row)
	}
	return m.Store.Create(ctx, member)
}

func (m memberRepo) Update(ctx context.Context, id primitive.ObjectID, patch any) (models.OrganigramMember, error) {
	p, ok := patch.(bson.M)
	if !ok {
		return models.OrganigramMember{}, fmt.Errorf("organigram update: unexpected patch type %T", patch)
	}
	return m.Store.Update(ctx, id, p)
}
