// internal/app/features/organigram/input.go
package organigram

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dalemusser/municipio/internal/app/system/htmlsanitize"
	"github.com/dalemusser/municipio/internal/app/system/normalize"
	"github.com/dalemusser/municipio/internal/app/system/respond"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxUploadBytes bounds multipart requests carrying a photo.
const maxUploadBytes = 8 << 20

type memberInput struct {
	Name        string `json:"nome" validate:"required,max=200" label:"Name"`
	Role        string `json:"cargo" validate:"required,max=200" label:"Role"`
	Department  string `json:"departamento" validate:"required,max=200" label:"Department"`
	SuperiorID  string `json:"superior_id" validate:"omitempty,objectid" label:"Superior"`
	Email       string `json:"email" validate:"omitempty,email" label:"Email"`
	Phone       string `json:"telefone" validate:"max=50" label:"Phone"`
	Description string `json:"descricao" validate:"max=5000" label:"Description"`
	Order       int    `json:"ordem" validate:"gte=0" label:"Order"`
	Active      *bool  `json:"ativo" label:"Active"`
}

func (in *memberInput) clean() {
	in.Name = normalize.Name(in.Name)
	in.Role = strings.TrimSpace(in.Role)
	in.Department = normalize.Name(in.Department)
	in.SuperiorID = strings.TrimSpace(in.SuperiorID)
	in.Email = normalize.Email(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Description = htmlsanitize.Sanitize(strings.TrimSpace(in.Description))
}

func (in memberInput) superior() *primitive.ObjectID {
	if in.SuperiorID == "" {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(in.SuperiorID)
	if err != nil {
		return nil
	}
	return &id
}

func (in memberInput) active() bool {
	return in.Active == nil || *in.Active
}

func (in memberInput) patch() bson.M {
	return bson.M{
		"nome":         in.Name,
		"cargo":        in.Role,
		"departamento": in.Department,
		"superior_id":  in.superior(),
		"email":        in.Email,
		"telefone":     in.Phone,
		"descricao":    in.Description,
		"ordem":        in.Order,
		"ativo":        in.active(),
	}
}

// photo is an optional uploaded file.
type photo struct {
	file   multipart.File
	header *multipart.FileHeader
}

func (p *photo) close() {
	if p != nil && p.file != nil {
		_ = p.file.Close()
	}
}

// decodeMember reads a member from a JSON body, or from a multipart form
// whose "dados" field holds the JSON and whose "foto" field holds an
// optional photo.
func decodeMember(w http.ResponseWriter, r *http.Request) (memberInput, *photo, error) {
	var in memberInput
	if !isMultipart(r) {
		return in, nil, respond.Decode(w, r, &in)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return in, nil, errors.New("invalid form data or photo larger than 8 MB")
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(r.FormValue("dados"))))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return in, nil, errors.New("the dados field must hold the member as JSON")
	}
	p, err := formPhoto(r)
	if err != nil {
		return in, nil, err
	}
	return in, p, nil
}

// formPhoto returns the "foto" file, or nil when none was sent.
func formPhoto(r *http.Request) (*photo, error) {
	file, header, err := r.FormFile("foto")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New("the photo could not be read")
	}
	if header.Size == 0 {
		_ = file.Close()
		return nil, nil
	}
	return &photo{file: file, header: header}, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
