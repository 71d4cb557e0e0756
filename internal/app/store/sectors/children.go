// internal/app/store/sectors/children.go
package sectorstore

import (
	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"github.com/dalemusser/municipio/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// Child tables of a sector, all keyed by setor_id and ordered by ordem.
var (
	Statistics      = tablestore.Table{Name: "setores_estatisticas", ParentField: "setor_id", OrderField: "ordem", ActiveField: "ativo"}
	Programs        = tablestore.Table{Name: "setores_programas", ParentField: "setor_id", OrderField: "ordem", ActiveField: "ativo"}
	Opportunities   = tablestore.Table{Name: "setores_oportunidades", ParentField: "setor_id", OrderField: "ordem", ActiveField: "ativo"}
	Infrastructures = tablestore.Table{Name: "setores_infraestruturas", ParentField: "setor_id", OrderField: "ordem", ActiveField: "ativo"}
	Contacts        = tablestore.Table{Name: "setores_contactos", ParentField: "setor_id", OrderField: "ordem"}

	ChildTables = []tablestore.Table{Statistics, Programs, Opportunities, Infrastructures, Contacts}
)

// Children groups the five child repositories of a sector.
type Children struct {
	Statistics      *tablestore.Store[models.SectorStatistic]
	Programs        *tablestore.Store[models.Program]
	Opportunities   *tablestore.Store[models.Opportunity]
	Infrastructures *tablestore.Store[models.Infrastructure]
	Contacts        *tablestore.Store[models.Contact]
}

// NewChildren returns the child repositories over db.
func NewChildren(db *mongo.Database) Children {
	return Children{
		Statistics:      tablestore.New[models.SectorStatistic](db, Statistics),
		Programs:        tablestore.New[models.Program](db, Programs),
		Opportunities:   tablestore.New[models.Opportunity](db, Opportunities),
		Infrastructures: tablestore.New[models.Infrastructure](db, Infrastructures),
		Contacts:        tablestore.New[models.Contact](db, Contacts),
	}
}
