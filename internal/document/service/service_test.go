package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actadigital/registry/internal/document"
	"github.com/actadigital/registry/internal/domain"
	"github.com/actadigital/registry/internal/fingerprint"
	"github.com/actadigital/registry/internal/ledger"
)

// stepClock returns the given instants in order, repeating the last one.
func stepClock(ts ...time.Time) func() time.Time {
	var mu sync.Mutex
	i := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := ts[i]
		if i < len(ts)-1 {
			i++
		}
		return t
	}
}

type brokenLog struct{}

func (brokenLog) Name() string { return "broken" }
func (brokenLog) Append(ctx context.Context, line []byte) error {
	return fmt.Errorf("append: %w: disk full", domain.ErrStorageUnavailable)
}
func (brokenLog) ReadAll(ctx context.Context) ([][]byte, error) {
	return nil, fmt.Errorf("read: %w: permission denied", domain.ErrStorageUnavailable)
}

func TestRegisterBuildsRecord(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 678901234, time.UTC)
	svc := NewMemoryService(WithClock(func() time.Time { return at }), WithPreviewLength(5))

	rec, err := svc.Register(context.Background(), "  alice ", "hello world")
	require.NoError(t, err)
	require.Equal(t, "alice", rec.Owner)
	require.Equal(t, fingerprint.String("hello world"), rec.Fingerprint)
	require.Equal(t, "hello", rec.ContentPreview)
	require.Equal(t, at.Truncate(time.Microsecond), rec.RegisteredAt)
}

func TestExistsAfterRegister(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()

	ok, err := svc.Exists(ctx, "hello")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = svc.Register(ctx, "alice", "hello")
	require.NoError(t, err)

	ok, err = svc.Exists(ctx, "hello")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = svc.Exists(ctx, "goodbye")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDuplicateRegistrationAppendsAgain(t *testing.T) {
	ctx := context.Background()
	log := ledger.NewMemoryLog("documents")
	svc := NewService(log)

	_, err := svc.Register(ctx, "alice", "same")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "bob", "same")
	require.NoError(t, err)
	require.Equal(t, 2, log.Len())

	recs, err := svc.Lookup(ctx, "  "+fingerprint.String("same")+"\n")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, "alice", recs[0].Owner)
	require.Equal(t, "bob", recs[1].Owner)

	_, err = svc.Lookup(ctx, " ")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVerifyMatch(t *testing.T) {
	svc := NewMemoryService()
	require.True(t, svc.VerifyMatch("hello", fingerprint.String("hello")))
	require.False(t, svc.VerifyMatch("hello", fingerprint.String("goodbye")))
	require.True(t, svc.VerifyMatch("hello", "  "+fingerprint.String("hello")+"\t\n"))
	require.False(t, svc.VerifyMatch("hello", ""))
	require.Equal(t, fingerprint.String(""), svc.Fingerprint(""))
}

func TestHistoryMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	t1 := time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC)
	t2 := t1.Add(time.Second)
	t3 := t2.Add(time.Second)
	svc := NewMemoryService(WithClock(stepClock(t1, t2, t3)))

	for _, c := range []string{"one", "two", "three"} {
		_, err := svc.Register(ctx, "alice", c)
		require.NoError(t, err)
	}
	hist, err := svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, hist, 3)
	require.Equal(t, []time.Time{t3, t2, t1}, []time.Time{hist[0].RegisteredAt, hist[1].RegisteredAt, hist[2].RegisteredAt})
	require.Equal(t, "three", hist[0].ContentPreview)
}

func TestHistoryTiesKeepAppendOrder(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := NewMemoryService(WithClock(func() time.Time { return at }))
	for _, c := range []string{"a", "b", "c"} {
		_, err := svc.Register(ctx, "alice", c)
		require.NoError(t, err)
	}
	hist, err := svc.History(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, []string{hist[0].ContentPreview, hist[1].ContentPreview, hist[2].ContentPreview})
}

func TestRegistrationTimesNeverDecrease(t *testing.T) {
	ctx := context.Background()
	later := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	earlier := later.Add(-time.Hour)
	svc := NewMemoryService(WithClock(stepClock(later, earlier)))

	first, err := svc.Register(ctx, "alice", "a")
	require.NoError(t, err)
	second, err := svc.Register(ctx, "alice", "b")
	require.NoError(t, err)
	require.False(t, second.RegisteredAt.Before(first.RegisteredAt))
}

func TestRegisterRejectsEmptyInputWithoutSideEffect(t *testing.T) {
	ctx := context.Background()
	log := ledger.NewMemoryLog("documents")
	svc := NewService(log)

	cases := []struct{ owner, content string }{
		{"", "content"},
		{"   ", "content"},
		{"alice", ""},
		{"alice", " \n\t"},
	}
	for _, c := range cases {
		_, err := svc.Register(ctx, c.owner, c.content)
		require.ErrorIs(t, err, domain.ErrInvalidInput, "owner=%q content=%q", c.owner, c.content)
	}
	require.Zero(t, log.Len())
}

func TestStorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(brokenLog{})

	_, err := svc.Register(ctx, "alice", "hello")
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	_, err = svc.Exists(ctx, "hello")
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	_, err = svc.History(ctx)
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestFileBackedRegistrySurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "documents.jsonl")
	open := func() Service {
		fl, err := ledger.NewFileLog("documents", path)
		require.NoError(t, err)
		return NewService(fl)
	}

	rec, err := open().Register(ctx, "alice", "persist me")
	require.NoError(t, err)

	hist, err := open().History(ctx)
	require.NoError(t, err)
	require.Equal(t, []document.Record{rec}, hist)
}

func TestConcurrentRegistrations(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "documents.jsonl")
	fl, err := ledger.NewFileLog("documents", path)
	require.NoError(t, err)
	svc := NewService(fl)

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Register(ctx, "owner", fmt.Sprintf("doc-%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	hist, err := svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, hist, 30)
	for i := 1; i < len(hist); i++ {
		require.False(t, hist[i].RegisteredAt.After(hist[i-1].RegisteredAt))
	}
}
