package logout_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/municipio/internal/app/features/logout"
	"github.com/dalemusser/municipio/internal/app/system/auth"
	"github.com/dalemusser/municipio/internal/testutil"
	"go.uber.org/zap"
)

func TestLogout_ExpiresCookie(t *testing.T) {
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	r := logout.Routes(logout.NewHandler(sm, zap.NewNop()))

	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewAuthenticatedRequest(t, http.MethodPost, "/", testutil.AdminUser(), nil))
	rec.AssertStatus(t, http.StatusNoContent)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected one expired cookie, got %+v", cookies)
	}
}
