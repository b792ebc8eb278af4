package document

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/actadigital/registry/internal/fingerprint"
)

// DefaultPreviewLength is the number of characters kept in ContentPreview.
const DefaultPreviewLength = 80

// Record is one registration in the document ledger. Fingerprint is always
// derived from the registered content; it is never taken from the caller.
// ContentPreview is informational and never used for verification.
type Record struct {
	Owner          string
	Fingerprint    string
	ContentPreview string
	RegisteredAt   time.Time
}

// wireRecord is the persisted line layout.
type wireRecord struct {
	Owner          string  `json:"owner"`
	Hash           string  `json:"hash"`
	ContentPreview string  `json:"content_preview"`
	Time           float64 `json:"time"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireRecord{
		Owner:          r.Owner,
		Hash:           r.Fingerprint,
		ContentPreview: r.ContentPreview,
		Time:           EpochSeconds(r.RegisteredAt),
	})
}

func (r *Record) UnmarshalJSON(b []byte) error {
	var w wireRecord
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*r = Record{
		Owner:          w.Owner,
		Fingerprint:    w.Hash,
		ContentPreview: w.ContentPreview,
		RegisteredAt:   FromEpochSeconds(w.Time),
	}
	return nil
}

// Validate rejects decoded lines that cannot be a registration.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.Owner) == "" {
		return errors.New("missing owner")
	}
	if !fingerprint.Valid(r.Fingerprint) {
		return errors.New("invalid hash")
	}
	return nil
}

// EpochSeconds converts t to fractional seconds since the Unix epoch at
// microsecond precision.
func EpochSeconds(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}

// FromEpochSeconds is the inverse of EpochSeconds, in UTC.
func FromEpochSeconds(s float64) time.Time {
	return time.UnixMicro(int64(math.Round(s * 1e6))).UTC()
}

// Preview returns the first n characters (runes) of content.
func Preview(content string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range content {
		if i == n {
			return content[:pos]
		}
		i++
	}
	return content
}
