// internal/app/features/sectors/viewmodel.go
package sectors

import (
	"github.com/dalemusser/municipio/internal/domain/models"
)

// Tab keys in display order.
const (
	TabPrograms        = "programas"
	TabOpportunities   = "oportunidades"
	TabInfrastructures = "infraestruturas"
	TabContacts        = "contactos"
)

type heroVM struct {
	Name        string `json:"nome"`
	Description string `json:"descricao"`
	Color       string `json:"cor"`
	Icon        string `json:"icone"`
}

type crumbVM struct {
	Label string `json:"label"`
	Href  string `json:"href,omitempty"`
}

type navVM struct {
	Slug    string `json:"slug"`
	Name    string `json:"nome"`
	Icon    string `json:"icone"`
	Current bool   `json:"atual"`
}

type tabVM struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
	Empty bool   `json:"empty"`
	Items any    `json:"items"`
}

type optionVM struct {
	ID    string `json:"id"`
	Title string `json:"titulo"`
}

type formVM struct {
	Kind    string     `json:"tipo"`
	Title   string     `json:"titulo"`
	Action  string     `json:"action"`
	Options []optionVM `json:"opcoes"`
}

type pageVM struct {
	Slug       string                   `json:"slug"`
	Hero       heroVM                   `json:"hero"`
	Breadcrumb []crumbVM                `json:"breadcrumb"`
	Navigation []navVM                  `json:"navegacao"`
	Statistics []models.SectorStatistic `json:"estatisticas"`
	Tabs       []tabVM                  `json:"tabs"`
	Vision     string                   `json:"visao"`
	Mission    string                   `json:"missao"`
	Forms      []formVM                 `json:"formularios"`
}

func newTab[T any](key, label string, items []T) tabVM {
	if items == nil {
		items = []T{}
	}
	return tabVM{Key: key, Label: label, Count: len(items), Empty: len(items) == 0, Items: items}
}

// buildPage composes the page view model from one aggregated sector and the
// active sector list.
func buildPage(sc models.SectorComplete, nav []models.Sector) pageVM {
	vm := pageVM{
		Slug: sc.Slug,
		Hero: heroVM{
			Name:        sc.Name,
			Description: sc.Description,
			Color:       sc.Color,
			Icon:        sc.Icon,
		},
		Breadcrumb: []crumbVM{
			{Label: "Início", Href: "/"},
			{Label: "Setores", Href: "/setores"},
			{Label: sc.Name},
		},
		Navigation: make([]navVM, 0, len(nav)),
		Statistics: sc.Statistics,
		Tabs: []tabVM{
			newTab(TabPrograms, "Programas", sc.Programs),
			newTab(TabOpportunities, "Oportunidades", sc.Opportunities),
			newTab(TabInfrastructures, "Infraestruturas", sc.Infrastructures),
			newTab(TabContacts, "Contactos", sc.Contacts),
		},
		Vision:  sc.Vision,
		Mission: sc.Mission,
	}
	if vm.Statistics == nil {
		vm.Statistics = []models.SectorStatistic{}
	}
	for _, s := range nav {
		vm.Navigation = append(vm.Navigation, navVM{
			Slug:    s.Slug,
			Name:    s.Name,
			Icon:    s.Icon,
			Current: s.ID == sc.ID,
		})
	}

	opps := make([]optionVM, 0, len(sc.Opportunities))
	for _, o := range sc.Opportunities {
		opps = append(opps, optionVM{ID: o.ID.Hex(), Title: o.Title})
	}
	progs := make([]optionVM, 0, len(sc.Programs))
	for _, p := range sc.Programs {
		progs = append(progs, optionVM{ID: p.ID.Hex(), Title: p.Title})
	}
	vm.Forms = []formVM{
		{Kind: models.RequestApplication, Title: "Candidatura", Action: "/setores/" + sc.Slug + "/candidaturas", Options: opps},
		{Kind: models.RequestEnrollment, Title: "Inscrição", Action: "/setores/" + sc.Slug + "/inscricoes", Options: progs},
	}
	return vm
}
