package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/actadigital/registry/internal/document"
	"github.com/actadigital/registry/internal/domain"
	"github.com/actadigital/registry/internal/fingerprint"
	"github.com/actadigital/registry/internal/ledger"
	"github.com/actadigital/registry/pkg/logger"
	"github.com/actadigital/registry/pkg/metrics"
)

// Service defines the registry operations used by the handler layer.
type Service interface {
	// Register appends a new record for content. Resubmitting content is
	// allowed and produces another record with the same fingerprint.
	Register(ctx context.Context, owner, content string) (document.Record, error)
	// Exists reports whether content was registered before.
	Exists(ctx context.Context, content string) (bool, error)
	// VerifyMatch compares the fingerprint of content with a claimed one.
	VerifyMatch(content, claimed string) bool
	// History returns every record, most recent first.
	History(ctx context.Context) ([]document.Record, error)
	Fingerprint(content string) string
	// Lookup returns the records carrying fingerprint fp, in append order.
	Lookup(ctx context.Context, fp string) ([]document.Record, error)
}

// Option configures a registry.
type Option func(*registry)

// WithClock replaces time.Now as the source of registration times.
func WithClock(now func() time.Time) Option {
	return func(r *registry) { r.now = now }
}

// WithPreviewLength sets how many characters of content are kept as preview.
func WithPreviewLength(n int) Option {
	return func(r *registry) {
		if n > 0 {
			r.previewLen = n
		}
	}
}

// NewService returns a registry persisting to log.
func NewService(log ledger.Log, opts ...Option) Service {
	r := &registry{
		ledger:     ledger.New[document.Record](log),
		now:        time.Now,
		previewLen: document.DefaultPreviewLength,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// NewMemoryService returns a Service backed by an in-memory log.
func NewMemoryService(opts ...Option) Service {
	return NewService(ledger.NewMemoryLog("documents"), opts...)
}

type registry struct {
	ledger     *ledger.Ledger[document.Record]
	now        func() time.Time
	previewLen int

	// mu orders stamping and appending so that ledger order and time order agree
	mu   sync.Mutex
	last time.Time
}

func (r *registry) Register(ctx context.Context, owner, content string) (document.Record, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return document.Record{}, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(content) == "" {
		return document.Record{}, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}

	rec := document.Record{
		Owner:          owner,
		Fingerprint:    fingerprint.String(content),
		ContentPreview: document.Preview(content, r.previewLen),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	at := r.now().UTC().Truncate(time.Microsecond)
	if at.Before(r.last) {
		at = r.last
	}
	rec.RegisteredAt = at
	if err := r.ledger.Append(ctx, rec); err != nil {
		return document.Record{}, err
	}
	r.last = at
	metrics.DocumentsRegistered.Inc()
	logger.Debugf("registered document %s for %q", rec.Fingerprint, rec.Owner)
	return rec, nil
}

func (r *registry) Exists(ctx context.Context, content string) (bool, error) {
	fp := fingerprint.String(content)
	recs, err := r.ledger.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	for _, rec := range recs {
		if rec.Fingerprint == fp {
			return true, nil
		}
	}
	return false, nil
}

func (r *registry) VerifyMatch(content, claimed string) bool {
	return fingerprint.String(content) == strings.TrimSpace(claimed)
}

func (r *registry) History(ctx context.Context) ([]document.Record, error) {
	recs, err := r.ledger.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].RegisteredAt.After(recs[j].RegisteredAt)
	})
	return recs, nil
}

func (r *registry) Fingerprint(content string) string {
	return fingerprint.String(content)
}

func (r *registry) Lookup(ctx context.Context, fp string) ([]document.Record, error) {
	fp = strings.TrimSpace(fp)
	if fp == "" {
		return nil, fmt.Errorf("%w: fingerprint is required", domain.ErrInvalidInput)
	}
	recs, err := r.ledger.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []document.Record{}
	for _, rec := range recs {
		if rec.Fingerprint == fp {
			out = append(out, rec)
		}
	}
	return out, nil
}
