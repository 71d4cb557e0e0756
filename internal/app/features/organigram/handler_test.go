package organigram_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	"github.com/dalemusser/municipio/internal/app/features/organigram"
	departmentstore "github.com/dalemusser/municipio/internal/app/store/departments"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/dalemusser/municipio/internal/testutil"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type body struct {
	Item       *models.OrganigramMember  `json:"item"`
	Items      []models.OrganigramMember `json:"items"`
	PhotoError string                    `json:"photo_error"`
}

type env struct {
	r       chi.Router
	h       *organigram.Handler
	fx      *testutil.Fixtures
	objects *storage.Memory
}

func newEnv(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if _, err := departmentstore.New(db).Seed(ctx, models.DefaultDepartments); err != nil {
		t.Fatalf("seed departments: %v", err)
	}

	objects := storage.NewMemory(storage.MemoryConfig{BaseURL: "/media"})
	logger := zap.NewNop()
	h := organigram.NewHandler(db, objects, uierrors.NewErrorLogger(logger), logger)
	return env{r: organigram.Routes(h), h: h, fx: testutil.NewFixtures(t, db), objects: objects}
}

func (e env) serve(req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	e.r.ServeHTTP(rec, req)
	return rec
}

func memberJSON(name, dept string, superior string) map[string]any {
	return map[string]any{
		"nome":         name,
		"cargo":        "Diretor",
		"departamento": dept,
		"superior_id":  superior,
	}
}

// multipartRequest builds a form with the member JSON in "dados" and an
// optional "foto" part.
func multipartRequest(t *testing.T, method, target string, member map[string]any, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if member != nil {
		raw, err := json.Marshal(member)
		if err != nil {
			t.Fatalf("encode member: %v", err)
		}
		if err := mw.WriteField("dados", string(raw)); err != nil {
			t.Fatalf("write dados: %v", err)
		}
	}
	if filename != "" {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="foto"; filename="`+filename+`"`)
		hdr.Set("Content-Type", contentType)
		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCreate_ValidatesDepartment(t *testing.T) {
	e := newEnv(t)

	rec := e.serve(testutil.NewJSONRequest(t, http.MethodPost, "/", memberJSON("Ana Lima", "Educação e Cultura", "")))
	rec.AssertStatus(t, http.StatusCreated)
	var b body
	rec.DecodeJSON(t, &b)
	if b.Item == nil || b.Item.ID.IsZero() || !b.Item.Active {
		t.Fatalf("item = %+v", b.Item)
	}
	if b.Item.SuperiorID != nil {
		t.Errorf("superior_id = %v, want null", b.Item.SuperiorID)
	}

	rec = e.serve(testutil.NewJSONRequest(t, http.MethodPost, "/", memberJSON("Rui", "Departamento Inventado", "")))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "configured departments")
}

func TestCreate_UnknownSuperior(t *testing.T) {
	e := newEnv(t)
	ghost := primitive.NewObjectID().Hex()

	rec := e.serve(testutil.NewJSONRequest(t, http.MethodPost, "/", memberJSON("Ana", "Presidência", ghost)))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "superior does not exist")
}

func TestUpdate_SelfSuperiorRejected(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	a := e.fx.CreateMember(ctx, "Ana", "Presidência", nil)

	rec := e.serve(testutil.NewJSONRequest(t, http.MethodPut, "/"+a.ID.Hex(), memberJSON("Ana", "Presidência", a.ID.Hex())))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestUpdate_IndirectCycleAccepted(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	a := e.fx.CreateMember(ctx, "Ana", "Presidência", nil)
	b := e.fx.CreateMember(ctx, "Bruno", "Presidência", &a.ID)

	// A reports to B while B reports to A.
	rec := e.serve(testutil.NewJSONRequest(t, http.MethodPut, "/"+a.ID.Hex(), memberJSON("Ana", "Presidência", b.ID.Hex())))
	rec.AssertStatus(t, http.StatusOK)
	var got body
	rec.DecodeJSON(t, &got)
	if got.Item.SuperiorID == nil || *got.Item.SuperiorID != b.ID {
		t.Errorf("superior_id = %v, want %s", got.Item.SuperiorID, b.ID.Hex())
	}
}

func TestUpdate_KeepsInactiveCurrentDepartment(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	m := e.fx.CreateMember(ctx, "Ana", "Serviço Extinto", nil)

	rec := e.serve(testutil.NewJSONRequest(t, http.MethodPut, "/"+m.ID.Hex(), memberJSON("Ana Lima", "Serviço Extinto", "")))
	rec.AssertStatus(t, http.StatusOK)
}

func TestSuperiorOptions_ExcludeEditedMember(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	a := e.fx.CreateMember(ctx, "Ana", "Presidência", nil)
	e.fx.CreateMember(ctx, "Bruno", "Presidência", &a.ID)

	rec := e.serve(testutil.NewRequest(http.MethodGet, "/superiores?editar="+a.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)
	var b body
	rec.DecodeJSON(t, &b)
	if len(b.Items) != 1 || b.Items[0].Name != "Bruno" {
		t.Errorf("options = %+v", b.Items)
	}

	rec = e.serve(testutil.NewRequest(http.MethodGet, "/superiores"))
	rec.DecodeJSON(t, &b)
	if len(b.Items) != 2 {
		t.Errorf("create mode options = %d, want 2", len(b.Items))
	}
}

func TestDelete_DetachesSubordinates(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	a := e.fx.CreateMember(ctx, "Ana", "Presidência", nil)
	b := e.fx.CreateMember(ctx, "Bruno", "Presidência", &a.ID)

	rec := e.serve(testutil.NewRequest(http.MethodDelete, "/"+a.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)
	var got body
	rec.DecodeJSON(t, &got)
	if len(got.Items) != 1 || got.Items[0].ID != b.ID || got.Items[0].SuperiorID != nil {
		t.Errorf("items = %+v", got.Items)
	}
}

func TestCreate_WithPhoto(t *testing.T) {
	e := newEnv(t)

	req := multipartRequest(t, http.MethodPost, "/", memberJSON("Ana", "Presidência", ""), "retrato ana.png", "image/png", []byte("png-bytes"))
	rec := e.serve(req)
	rec.AssertStatus(t, http.StatusCreated)
	var b body
	rec.DecodeJSON(t, &b)
	if b.PhotoError != "" {
		t.Fatalf("photo_error = %q", b.PhotoError)
	}
	prefix := "/media/organigrama/" + b.Item.ID.Hex() + "/"
	if !strings.HasPrefix(b.Item.PhotoURL, prefix) || !strings.HasSuffix(b.Item.PhotoURL, "-retrato-ana.png") {
		t.Errorf("foto_url = %q", b.Item.PhotoURL)
	}
	if len(b.Items) != 1 || b.Items[0].PhotoURL != b.Item.PhotoURL {
		t.Errorf("re-fetched list misses the photo: %+v", b.Items)
	}

	key := strings.TrimPrefix(b.Item.PhotoURL, "/media/")
	ctx, cancel := testutil.TestContext()
	defer cancel()
	data, err := e.objects.GetBytes(ctx, key)
	if err != nil {
		t.Fatalf("read stored photo: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("stored photo = %q", data)
	}
}

type failingObjects struct{ storage.Store }

func (failingObjects) Put(context.Context, string, io.Reader, *storage.PutOptions) error {
	return errors.New("bucket unavailable")
}

func TestCreate_PhotoFailureKeepsRow(t *testing.T) {
	e := newEnv(t)
	e.h.Objects = failingObjects{}

	req := multipartRequest(t, http.MethodPost, "/", memberJSON("Ana", "Presidência", ""), "ana.jpg", "image/jpeg", []byte("jpg"))
	rec := e.serve(req)
	rec.AssertStatus(t, http.StatusCreated)
	var b body
	rec.DecodeJSON(t, &b)
	if b.PhotoError == "" {
		t.Error("expected photo_error")
	}
	if b.Item == nil || b.Item.PhotoURL != "" {
		t.Errorf("item = %+v, want saved row without photo", b.Item)
	}
	if len(b.Items) != 1 {
		t.Errorf("row missing from list: %+v", b.Items)
	}
}

func TestPhoto_RejectsNonImage(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	m := e.fx.CreateMember(ctx, "Ana", "Presidência", nil)

	req := multipartRequest(t, http.MethodPost, "/"+m.ID.Hex()+"/foto", nil, "cv.pdf", "application/pdf", []byte("%PDF"))
	e.serve(req).AssertStatus(t, http.StatusBadRequest)

	req = multipartRequest(t, http.MethodPost, "/"+m.ID.Hex()+"/foto", nil, "", "", nil)
	e.serve(req).AssertStatus(t, http.StatusBadRequest)
}

func TestPhoto_ReplacesURL(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	m := e.fx.CreateMember(ctx, "Ana", "Presidência", nil)

	upload := func(name string) string {
		t.Helper()
		req := multipartRequest(t, http.MethodPost, "/"+m.ID.Hex()+"/foto", nil, name, "image/png", []byte(name))
		rec := e.serve(req)
		rec.AssertStatus(t, http.StatusOK)
		var b body
		rec.DecodeJSON(t, &b)
		if b.Item == nil || b.Item.PhotoURL == "" {
			t.Fatalf("item = %+v", b.Item)
		}
		return strings.TrimPrefix(b.Item.PhotoURL, "/media/")
	}

	first := upload("ana.png")
	second := upload("ana-2024.png")
	if first == second {
		t.Fatalf("replacement reused key %q", first)
	}
	if ok, _ := e.objects.Exists(ctx, first); ok {
		t.Errorf("replaced photo %q still stored", first)
	}
	if ok, _ := e.objects.Exists(ctx, second); !ok {
		t.Errorf("new photo %q missing", second)
	}
	if n := e.objects.Count(); n != 1 {
		t.Errorf("stored objects = %d, want 1", n)
	}
}

func TestUpdate_WithPhotoReplacesPrevious(t *testing.T) {
	e := newEnv(t)

	req := multipartRequest(t, http.MethodPost, "/", memberJSON("Ana", "Presidência", ""), "a.png", "image/png", []byte("a"))
	rec := e.serve(req)
	rec.AssertStatus(t, http.StatusCreated)
	var created body
	rec.DecodeJSON(t, &created)

	req = multipartRequest(t, http.MethodPut, "/"+created.Item.ID.Hex(), memberJSON("Ana", "Presidência", ""), "b.png", "image/png", []byte("b"))
	rec = e.serve(req)
	rec.AssertStatus(t, http.StatusOK)
	var updated body
	rec.DecodeJSON(t, &updated)
	if updated.Item == nil || updated.Item.PhotoURL == created.Item.PhotoURL {
		t.Fatalf("photo not replaced: %+v", updated.Item)
	}
	if n := e.objects.Count(); n != 1 {
		t.Errorf("stored objects = %d, want 1", n)
	}
}

func TestPublicList_OnlyActive(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	e.fx.CreateMember(ctx, "Ana", "Presidência", nil)
	hidden := e.fx.CreateMember(ctx, "Bruno", "Presidência", nil)
	off := false
	e.serve(testutil.NewJSONRequest(t, http.MethodPut, "/"+hidden.ID.Hex(), map[string]any{
		"nome": "Bruno", "cargo": "Técnico", "departamento": "Presidência", "ativo": off,
	})).AssertStatus(t, http.StatusOK)

	rec := testutil.NewRecorder()
	organigram.PublicRoutes(e.h).ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/"))
	rec.AssertStatus(t, http.StatusOK)
	var b body
	rec.DecodeJSON(t, &b)
	if len(b.Items) != 1 || b.Items[0].Name != "Ana" {
		t.Errorf("public items = %+v", b.Items)
	}
}
