package vote

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/actadigital/registry/internal/domain"
)

func TestRecordWireFormat(t *testing.T) {
	b, err := json.Marshal(Record{Fingerprint: "abc", Choice: Affirm})
	require.NoError(t, err)
	require.JSONEq(t, `{"hash":"abc","vote":"Sí"}`, string(b))

	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"hash": "abc", "vote": "No"}`), &r))
	require.Equal(t, Record{Fingerprint: "abc", Choice: Reject}, r)

	require.Error(t, json.Unmarshal([]byte(`{"hash":"abc","vote":"maybe"}`), &r))
}

func TestRecordValidate(t *testing.T) {
	require.NoError(t, (&Record{Fingerprint: "abc", Choice: Reject}).Validate())
	require.Error(t, (&Record{Choice: Affirm}).Validate())

	// a line without a vote, such as a document registration, is not a vote
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"owner":"alice","hash":"abc","time":1700000000}`), &r))
	require.Error(t, r.Validate())
}

func TestParseChoice(t *testing.T) {
	for _, s := range []string{"Sí", "SI", "yes", " affirm "} {
		c, err := ParseChoice(s)
		require.NoError(t, err)
		require.Equal(t, Affirm, c)
	}
	for _, s := range []string{"No", "reject"} {
		c, err := ParseChoice(s)
		require.NoError(t, err)
		require.Equal(t, Reject, c)
	}
	_, err := ParseChoice("abstain")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCount(t *testing.T) {
	recs := []Record{{"a", Affirm}, {"b", Reject}, {"a", Reject}, {"a", Affirm}}
	require.Equal(t, Tally{Affirm: 2, Reject: 2}, Count(recs, ""))
	require.Equal(t, Tally{Affirm: 2, Reject: 1}, Count(recs, "a"))
	require.Equal(t, Tally{}, Count(recs, "zzz"))
}
