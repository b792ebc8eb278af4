package document

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/actadigital/registry/internal/fingerprint"
)

func TestRecordWireFormat(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 123456000, time.UTC)
	r := Record{Owner: "alice", Fingerprint: fingerprint.String("hello"), ContentPreview: "hello", RegisteredAt: at}

	b, err := json.Marshal(r)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	require.Equal(t, "alice", m["owner"])
	require.Equal(t, fingerprint.String("hello"), m["hash"])
	require.Equal(t, "hello", m["content_preview"])
	require.InDelta(t, float64(at.Unix())+0.123456, m["time"], 1e-6)

	var back Record
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, r, back)
}

func TestRecordReadsForeignLine(t *testing.T) {
	line := `{"owner": "bob", "hash": "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", "content_preview": "hello", "time": 1715000000.5}`
	var r Record
	require.NoError(t, json.Unmarshal([]byte(line), &r))
	require.NoError(t, r.Validate())
	require.Equal(t, time.Unix(1715000000, 500000000).UTC(), r.RegisteredAt)
}

func TestRecordValidate(t *testing.T) {
	require.Error(t, (&Record{Fingerprint: fingerprint.String("x")}).Validate())
	require.Error(t, (&Record{Owner: "a", Fingerprint: "zz"}).Validate())
	require.Error(t, (&Record{Owner: " \t ", Fingerprint: fingerprint.String("x")}).Validate())
	require.NoError(t, (&Record{Owner: "a", Fingerprint: fingerprint.String("x")}).Validate())
}

func TestPreview(t *testing.T) {
	require.Equal(t, "", Preview("abc", 0))
	require.Equal(t, "ab", Preview("abc", 2))
	require.Equal(t, "abc", Preview("abc", 80))
	require.Equal(t, "añ", Preview("añoñ", 2))
}
