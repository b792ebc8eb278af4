package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/actadigital/registry/internal/domain"
	"github.com/actadigital/registry/internal/ledger"
	"github.com/actadigital/registry/pkg/logger"
)

// ObjectPutter is the subset of object storage the archiver needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
}

// Snapshot describes one uploaded ledger copy.
type Snapshot struct {
	Log   string    `json:"log"`
	Key   string    `json:"key"`
	Lines int       `json:"lines"`
	Bytes int64     `json:"bytes"`
	At    time.Time `json:"at"`
}

// SnapshotArchiver copies the raw lines of a ledger to object storage.
// It only reads the ledger; lines are uploaded verbatim, malformed ones included.
type SnapshotArchiver struct {
	store ObjectPutter
	now   func() time.Time
}

func NewSnapshotArchiver(store ObjectPutter) *SnapshotArchiver {
	return &SnapshotArchiver{store: store, now: time.Now}
}

// Snapshot uploads the current content of log as <log>/<UTC time>-<uuid>.jsonl.
func (a *SnapshotArchiver) Snapshot(ctx context.Context, log ledger.Log) (Snapshot, error) {
	lines, err := log.ReadAll(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	var buf bytes.Buffer
	for _, l := range lines {
		buf.Write(l)
		buf.WriteByte('\n')
	}
	at := a.now().UTC()
	key := fmt.Sprintf("%s/%s-%s.jsonl", log.Name(), at.Format("20060102T150405Z"), uuid.NewString())
	size := int64(buf.Len())
	if err := a.store.PutObject(ctx, key, &buf, size, "application/x-ndjson"); err != nil {
		return Snapshot{}, fmt.Errorf("upload snapshot %s: %w: %w", key, domain.ErrStorageUnavailable, err)
	}
	logger.Infof("snapshot of ledger %s uploaded to %s (%d lines)", log.Name(), key, len(lines))
	return Snapshot{Log: log.Name(), Key: key, Lines: len(lines), Bytes: size, At: at}, nil
}
