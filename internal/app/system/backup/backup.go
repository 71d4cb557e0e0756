// Package backup exports the portal collections to the object store as
// gzip-compressed NDJSON in MongoDB extended JSON, one document per line.
package backup

import (
	"bufio"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	backupstore "github.com/dalemusser/municipio/internal/app/store/backups"
	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"github.com/dalemusser/municipio/internal/app/system/metrics"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "backups"

// ContentType of every archive.
const ContentType = "application/gzip"

// Collections are exported in this order. The backups collection itself is
// not exported.
var Collections = []string{
	"setores",
	"setores_estatisticas",
	"setores_programas",
	"setores_oportunidades",
	"setores_infraestruturas",
	"setores_contactos",
	"populacao_historico",
	"organigrama",
	"departamentos",
	"utilizadores",
	"solicitacoes",
	"configuracoes",
}

// ErrNotFound is returned by Remove for an unknown backup id.
var ErrNotFound = errors.New("backup not found")

// Line is one NDJSON record of an archive.
type Line struct {
	Collection string   `bson:"colecao"`
	Document   bson.Raw `bson:"documento"`
}

// Exporter writes archives and records each run in the backups collection.
type Exporter struct {
	db      *mongo.Database
	objects storage.Store
	records *backupstore.Store
	prefix  string
	log     *zap.Logger
}

// NewExporter creates an exporter. An empty prefix means DefaultPrefix.
func NewExporter(db *mongo.Database, objects storage.Store, records *backupstore.Store, prefix string, logger *zap.Logger) *Exporter {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Exporter{db: db, objects: objects, records: records, prefix: prefix, log: logger}
}

// Run exports every collection and records the outcome. A failed run is
// still recorded, with estado "falhou" and the error text.
func (e *Exporter) Run(ctx context.Context, origin string) (models.Backup, error) {
	start := time.Now()
	name := fmt.Sprintf("municipio-backup-%s-%s.ndjson.gz",
		start.UTC().Format("20060102-150405"), uuid.NewString()[:8])
	rec := models.Backup{
		FileName:    name,
		Key:         path.Join(e.prefix, name),
		Collections: Collections,
		Origin:      origin,
		State:       models.BackupCompleted,
	}

	size, docs, err := e.export(ctx, rec.Key)
	rec.Size = size
	rec.Documents = docs
	if err != nil {
		rec.State = models.BackupFailed
		rec.Error = err.Error()
	}
	metrics.BackupRuns.WithLabelValues(origin, metrics.Result(err)).Inc()

	saved, recErr := e.records.Record(ctx, rec)
	if recErr != nil {
		e.log.Error("failed to record backup run", zap.String("key", rec.Key), zap.Error(recErr))
		if err == nil {
			err = recErr
		}
		saved = rec
	}

	if err != nil {
		e.log.Error("backup failed",
			zap.String("origin", origin),
			zap.String("key", rec.Key),
			zap.Error(err))
		return saved, err
	}
	e.log.Info("backup completed",
		zap.String("origin", origin),
		zap.String("key", rec.Key),
		zap.Int64("size", size),
		zap.Int64("documents", docs),
		zap.Duration("duration", time.Since(start)))
	return saved, nil
}

// export streams the archive through a temporary file so its size is known
// before upload.
func (e *Exporter) export(ctx context.Context, key string) (int64, int64, error) {
	tmp, err := os.CreateTemp("", "municipio-backup-*.ndjson.gz")
	if err != nil {
		return 0, 0, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	docs, err := WriteArchive(ctx, e.db, tmp)
	if err != nil {
		return 0, docs, err
	}

	info, err := tmp.Stat()
	if err != nil {
		return 0, docs, fmt.Errorf("stat archive: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return 0, docs, fmt.Errorf("rewind archive: %w", err)
	}
	opts := &storage.PutOptions{
		ContentType:        ContentType,
		ContentDisposition: `attachment; filename="` + path.Base(key) + `"`,
	}
	if err := e.objects.Put(ctx, key, tmp, opts); err != nil {
		return info.Size(), docs, fmt.Errorf("upload archive: %w", err)
	}
	return info.Size(), docs, nil
}

// WriteArchive writes every collection in Collections to w and returns the
// number of documents written.
func WriteArchive(ctx context.Context, db *mongo.Database, w io.Writer) (int64, error) {
	gz := gzip.NewWriter(w)
	buf := bufio.NewWriter(gz)

	var total int64
	for _, name := range Collections {
		n, err := writeCollection(ctx, db.Collection(name), buf)
		total += n
		if err != nil {
			gz.Close()
			return total, fmt.Errorf("export %s: %w", name, err)
		}
	}
	if err := buf.Flush(); err != nil {
		gz.Close()
		return total, err
	}
	if err := gz.Close(); err != nil {
		return total, fmt.Errorf("close gzip: %w", err)
	}
	return total, nil
}

func writeCollection(ctx context.Context, c *mongo.Collection, w *bufio.Writer) (int64, error) {
	cur, err := c.Find(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var n int64
	for cur.Next(ctx) {
		line, err := bson.MarshalExtJSON(Line{Collection: c.Name(), Document: cur.Current}, true, false)
		if err != nil {
			return n, err
		}
		if _, err := w.Write(line); err != nil {
			return n, err
		}
		if err := w.WriteByte('\n'); err != nil {
			return n, err
		}
		n++
	}
	return n, cur.Err()
}

// ReadArchive decodes an archive produced by WriteArchive, calling fn for
// every line in order.
func ReadArchive(r io.Reader, fn func(Line) error) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("open gzip: %w", err)
	}
	defer gz.Close()

	sc := bufio.NewScanner(gz)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		var line Line
		if err := bson.UnmarshalExtJSON(sc.Bytes(), true, &line); err != nil {
			return fmt.Errorf("decode line: %w", err)
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return sc.Err()
}

// Remove deletes the archive object and its backups row.
func (e *Exporter) Remove(ctx context.Context, id primitive.ObjectID) error {
	rec, err := e.records.Get(ctx, id)
	if errors.Is(err, tablestore.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if rec.Key != "" {
		if err := e.objects.Delete(ctx, rec.Key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("delete archive: %w", err)
		}
	}
	if err := e.records.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete backup row: %w", err)
	}
	return nil
}

// Open returns the backup row and a reader over its archive. The caller
// closes the reader.
func (e *Exporter) Open(ctx context.Context, id primitive.ObjectID) (models.Backup, io.ReadCloser, error) {
	rec, err := e.records.Get(ctx, id)
	if errors.Is(err, tablestore.ErrNotFound) {
		return models.Backup{}, nil, ErrNotFound
	}
	if err != nil {
		return models.Backup{}, nil, err
	}
	if rec.State != models.BackupCompleted || rec.Key == "" {
		return rec, nil, ErrNotFound
	}
	rc, err := e.objects.Get(ctx, rec.Key)
	if err != nil {
		return rec, nil, fmt.Errorf("open archive: %w", err)
	}
	return rec, rc, nil
}

// List returns the most recent backups, newest first.
func (e *Exporter) List(ctx context.Context, limit int64) ([]models.Backup, error) {
	return e.records.Recent(ctx, limit)
}
