package notimpl

import (
	"context"
	"errors"
	"testing"
)

func TestStub_AlwaysNotImplemented(t *testing.T) {
	ctx := context.Background()
	var s Stub
	for name, err := range map[string]error{
		"restore": s.Restore(ctx, "k"),
		"purge":   s.PurgeCache(ctx),
		"email":   s.SendTestEmail(ctx, "a@b.c"),
	} {
		if !Is(err) {
			t.Errorf("%s: expected ErrNotImplemented, got %v", name, err)
		}
	}
	if Is(errors.New("other")) {
		t.Error("unrelated error reported as not implemented")
	}
}
