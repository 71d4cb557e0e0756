// internal/app/features/sectoradmin/inputs.go
package sectoradmin

import (
	"strings"

	"github.com/dalemusser/municipio/internal/app/system/htmlsanitize"
	"github.com/dalemusser/municipio/internal/app/system/normalize"
	"go.mongodb.org/mongo-driver/bson"
)

// input is a decoded child row form. fields returns the columns to write;
// "ativo" is present only when the form set it.
type input interface {
	fields() bson.M
}

type sectorInput struct {
	Name        string `json:"nome" validate:"required,max=120" label:"Name"`
	Slug        string `json:"slug" validate:"omitempty,max=80" label:"Slug"`
	Description string `json:"descricao" validate:"max=20000" label:"Description"`
	Vision      string `json:"visao" validate:"max=5000" label:"Vision"`
	Mission     string `json:"missao" validate:"max=5000" label:"Mission"`
	Color       string `json:"cor" validate:"omitempty,max=30" label:"Color"`
	Icon        string `json:"icone" validate:"required,sectoricon" label:"Icon"`
	Order       int    `json:"ordem" validate:"gte=0" label:"Order"`
	Active      *bool  `json:"ativo"`
}

func (in sectorInput) fields() bson.M {
	m := bson.M{
		"nome":      normalize.Name(in.Name),
		"descricao": htmlsanitize.Sanitize(in.Description),
		"visao":     htmlsanitize.Sanitize(in.Vision),
		"missao":    htmlsanitize.Sanitize(in.Mission),
		"cor":       strings.TrimSpace(in.Color),
		"icone":     in.Icon,
		"ordem":     in.Order,
	}
	if in.Slug != "" {
		m["slug"] = normalize.Slug(in.Slug)
	}
	if in.Active != nil {
		m["ativo"] = *in.Active
	}
	return m
}

type statisticInput struct {
	Title  string `json:"titulo" validate:"required,max=120" label:"Title"`
	Value  string `json:"valor" validate:"required,max=60" label:"Value"`
	Unit   string `json:"unidade" validate:"max=30" label:"Unit"`
	Icon   string `json:"icone" validate:"omitempty,staticon" label:"Icon"`
	Order  int    `json:"ordem" validate:"gte=0" label:"Order"`
	Active *bool  `json:"ativo"`
}

func (in statisticInput) fields() bson.M {
	return withActive(bson.M{
		"titulo":  normalize.Name(in.Title),
		"valor":   strings.TrimSpace(in.Value),
		"unidade": strings.TrimSpace(in.Unit),
		"icone":   in.Icon,
		"ordem":   in.Order,
	}, in.Active)
}

type programInput struct {
	Title        string   `json:"titulo" validate:"required,max=200" label:"Title"`
	Description  string   `json:"descricao" validate:"max=20000" label:"Description"`
	Audience     string   `json:"publico_alvo" validate:"max=200" label:"Audience"`
	Duration     string   `json:"duracao" validate:"max=100" label:"Duration"`
	Benefits     []string `json:"beneficios" validate:"max=50,dive,max=300" label:"Benefits"`
	Requirements []string `json:"requisitos" validate:"max=50,dive,max=300" label:"Requirements"`
	Order        int      `json:"ordem" validate:"gte=0" label:"Order"`
	Active       *bool    `json:"ativo"`
}

func (in programInput) fields() bson.M {
	return withActive(bson.M{
		"titulo":       normalize.Name(in.Title),
		"descricao":    htmlsanitize.Sanitize(in.Description),
		"publico_alvo": strings.TrimSpace(in.Audience),
		"duracao":      strings.TrimSpace(in.Duration),
		"beneficios":   cleanList(in.Benefits),
		"requisitos":   cleanList(in.Requirements),
		"ordem":        in.Order,
	}, in.Active)
}

type opportunityInput struct {
	Title        string   `json:"titulo" validate:"required,max=200" label:"Title"`
	Description  string   `json:"descricao" validate:"max=20000" label:"Description"`
	Kind         string   `json:"tipo" validate:"max=60" label:"Type"`
	Investment   string   `json:"investimento" validate:"max=100" label:"Investment"`
	Deadline     string   `json:"prazo" validate:"max=100" label:"Deadline"`
	Benefits     []string `json:"beneficios" validate:"max=50,dive,max=300" label:"Benefits"`
	Requirements []string `json:"requisitos" validate:"max=50,dive,max=300" label:"Requirements"`
	Order        int      `json:"ordem" validate:"gte=0" label:"Order"`
	Active       *bool    `json:"ativo"`
}

func (in opportunityInput) fields() bson.M {
	return withActive(bson.M{
		"titulo":       normalize.Name(in.Title),
		"descricao":    htmlsanitize.Sanitize(in.Description),
		"tipo":         strings.TrimSpace(in.Kind),
		"investimento": strings.TrimSpace(in.Investment),
		"prazo":        strings.TrimSpace(in.Deadline),
		"beneficios":   cleanList(in.Benefits),
		"requisitos":   cleanList(in.Requirements),
		"ordem":        in.Order,
	}, in.Active)
}

type infrastructureInput struct {
	Name     string   `json:"nome" validate:"required,max=200" label:"Name"`
	Kind     string   `json:"tipo" validate:"max=60" label:"Type"`
	Location string   `json:"localizacao" validate:"max=200" label:"Location"`
	Capacity string   `json:"capacidade" validate:"max=100" label:"Capacity"`
	State    string   `json:"estado" validate:"max=60" label:"State"`
	Features []string `json:"caracteristicas" validate:"max=50,dive,max=300" label:"Features"`
	Order    int      `json:"ordem" validate:"gte=0" label:"Order"`
	Active   *bool    `json:"ativo"`
}

func (in infrastructureInput) fields() bson.M {
	return withActive(bson.M{
		"nome":            normalize.Name(in.Name),
		"tipo":            strings.TrimSpace(in.Kind),
		"localizacao":     strings.TrimSpace(in.Location),
		"capacidade":      strings.TrimSpace(in.Capacity),
		"estado":          strings.TrimSpace(in.State),
		"caracteristicas": cleanList(in.Features),
		"ordem":           in.Order,
	}, in.Active)
}

// contactInput has no active flag; contacts are always shown.
type contactInput struct {
	Responsible string `json:"responsavel" validate:"max=120" label:"Responsible"`
	Address     string `json:"endereco" validate:"max=300" label:"Address"`
	Phone       string `json:"telefone" validate:"max=40" label:"Phone"`
	Email       string `json:"email" validate:"omitempty,email,max=254" label:"Email"`
	Hours       string `json:"horario" validate:"max=200" label:"Hours"`
	Order       int    `json:"ordem" validate:"gte=0" label:"Order"`
}

func (in contactInput) fields() bson.M {
	return bson.M{
		"responsavel": normalize.Name(in.Responsible),
		"endereco":    strings.TrimSpace(in.Address),
		"telefone":    strings.TrimSpace(in.Phone),
		"email":       normalize.Email(in.Email),
		"horario":     strings.TrimSpace(in.Hours),
		"ordem":       in.Order,
	}
}

func withActive(m bson.M, active *bool) bson.M {
	if active != nil {
		m["ativo"] = *active
	}
	return m
}

// cleanList trims entries and drops blanks. The result is never nil.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
