package vote

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/actadigital/registry/internal/domain"
)

// Choice is the two-valued vote. The string values are the persisted ones.
type Choice string

const (
	Affirm Choice = "Sí"
	Reject Choice = "No"
)

func (c Choice) Valid() bool { return c == Affirm || c == Reject }

// UnmarshalJSON accepts only the persisted values, so an unknown vote makes
// the whole line malformed.
func (c *Choice) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if v := Choice(s); v.Valid() {
		*c = v
		return nil
	}
	return fmt.Errorf("unknown vote %q", s)
}

// ParseChoice accepts the persisted values and a few aliases, ignoring case.
func ParseChoice(s string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sí", "si", "yes", "affirm":
		return Affirm, nil
	case "no", "reject":
		return Reject, nil
	}
	return "", fmt.Errorf("%w: unknown vote %q", domain.ErrInvalidInput, s)
}

// Record is one vote in the vote ledger. The fingerprint need not belong to
// a registered document, and the same actor may vote any number of times.
type Record struct {
	Fingerprint string `json:"hash"`
	Choice      Choice `json:"vote"`
}

func (r *Record) Validate() error {
	if r.Fingerprint == "" {
		return errors.New("missing hash")
	}
	if !r.Choice.Valid() {
		return errors.New("invalid vote")
	}
	return nil
}

// Tally counts votes by choice.
type Tally struct {
	Affirm int `json:"affirm"`
	Reject int `json:"reject"`
}

func (t *Tally) add(c Choice) {
	switch c {
	case Affirm:
		t.Affirm++
	case Reject:
		t.Reject++
	}
}

// Count tallies recs; an empty fingerprint counts every record.
func Count(recs []Record, fp string) Tally {
	var t Tally
	for _, r := range recs {
		if fp == "" || r.Fingerprint == fp {
			t.add(r.Choice)
		}
	}
	return t
}
