// Package notimpl marks back-office operations that have no server-side
// implementation yet. Handlers answer these with 501 so a stub can never be
// mistaken for a real write.
package notimpl

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotImplemented is returned by every stub operation.
var ErrNotImplemented = errors.New("not implemented")

// Error wraps ErrNotImplemented with the operation name.
func Error(op string) error {
	return fmt.Errorf("%s: %w", op, ErrNotImplemented)
}

// Is reports whether err came from a stub.
func Is(err error) bool {
	return errors.Is(err, ErrNotImplemented)
}

// Restorer restores portal collections from a backup.
type Restorer interface {
	Restore(ctx context.Context, backupKey string) error
}

// Maintenance groups the settings-screen actions with no backend.
type Maintenance interface {
	PurgeCache(ctx context.Context) error
	SendTestEmail(ctx context.Context, to string) error
}

// Stub implements every interface in this package by returning
// ErrNotImplemented.
type Stub struct{}

func (Stub) Restore(context.Context, string) error { return Error("restore backup") }
func (Stub) PurgeCache(context.Context) error { return Error("purge cache") }
func (Stub) SendTestEmail(context.Context, string) error { return Error("send test email") }

var (
	_ Restorer    = Stub{}
	_ Maintenance = Stub{}
)
