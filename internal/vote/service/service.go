package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/actadigital/registry/internal/domain"
	"github.com/actadigital/registry/internal/ledger"
	"github.com/actadigital/registry/internal/vote"
	"github.com/actadigital/registry/pkg/logger"
	"github.com/actadigital/registry/pkg/metrics"
)

// Service defines the vote ledger operations used by the handler layer.
type Service interface {
	CastVote(ctx context.Context, fp string, choice vote.Choice) error
	// Tally counts every vote in the ledger, across all fingerprints.
	Tally(ctx context.Context) (vote.Tally, error)
	// TallyFor counts only the votes cast on fp.
	TallyFor(ctx context.Context, fp string) (vote.Tally, error)
}

func NewService(log ledger.Log) Service {
	return &ledgerService{ledger: ledger.New[vote.Record](log)}
}

// NewMemoryService returns a Service backed by an in-memory log.
func NewMemoryService() Service {
	return NewService(ledger.NewMemoryLog("votes"))
}

type ledgerService struct {
	ledger *ledger.Ledger[vote.Record]
}

func (s *ledgerService) CastVote(ctx context.Context, fp string, choice vote.Choice) error {
	fp = strings.TrimSpace(fp)
	if fp == "" {
		return fmt.Errorf("%w: fingerprint is required", domain.ErrInvalidInput)
	}
	if !choice.Valid() {
		return fmt.Errorf("%w: unknown vote %q", domain.ErrInvalidInput, string(choice))
	}
	if err := s.ledger.Append(ctx, vote.Record{Fingerprint: fp, Choice: choice}); err != nil {
		return err
	}
	metrics.VotesCast.WithLabelValues(string(choice)).Inc()
	logger.Debugf("vote %s recorded for %s", choice, fp)
	return nil
}

func (s *ledgerService) Tally(ctx context.Context) (vote.Tally, error) {
	recs, err := s.ledger.LoadAll(ctx)
	if err != nil {
		return vote.Tally{}, err
	}
	return vote.Count(recs, ""), nil
}

func (s *ledgerService) TallyFor(ctx context.Context, fp string) (vote.Tally, error) {
	fp = strings.TrimSpace(fp)
	if fp == "" {
		return vote.Tally{}, fmt.Errorf("%w: fingerprint is required", domain.ErrInvalidInput)
	}
	recs, err := s.ledger.LoadAll(ctx)
	if err != nil {
		return vote.Tally{}, err
	}
	return vote.Count(recs, fp), nil
}
