package satsnav

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	depositLine = `{"wallet":"W","id":"1","groupId":"","date":1704067200,"type":0,"amount":0.5,"asset":{"name":"BTC","type":1}}`
	tradeLine   = `{"wallet":"W","id":"2","groupId":"g","date":"1704070800","type":"trade","amount":-100,"asset":{"name":"EUR","type":"fiat"}}`
)

func wantEntries() []LedgerEntry {
	return []LedgerEntry{
		E("W", "1", time.Unix(1704067200, 0).UTC(), KindDeposit, "0.5", BTC),
		G(E("W", "2", time.Unix(1704070800, 0).UTC(), KindTrade, "-100", EUR), "g"),
	}
}

func assertEntries(t *testing.T, want, got []LedgerEntry) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "entry %d: want %s, got %s", i, want[i], got[i])
	}
}

func TestDecodeEntries(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "jsonl", input: depositLine + "\n" + tradeLine + "\n"},
		{name: "jsonl with blank lines", input: "\n" + depositLine + "\n\n" + tradeLine},
		{name: "array", input: "[" + depositLine + "," + tradeLine + "]"},
		{name: "indented array", input: "  \n[\n  " + depositLine + ",\n  " + tradeLine + "\n]\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeEntries(strings.NewReader(tc.input))
			require.NoError(t, err)
			assertEntries(t, wantEntries(), got)
		})
	}
}

func TestDecodeEntriesEmpty(t *testing.T) {
	got, err := DecodeEntries(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeEntriesErrors(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		unknown bool
	}{
		{name: "unknown entry type", input: `{"wallet":"W","id":"1","date":1,"type":9,"amount":1,"asset":{"name":"BTC","type":1}}`, unknown: true},
		{name: "unknown entry name", input: `{"wallet":"W","id":"1","date":1,"type":"gift","amount":1,"asset":{"name":"BTC","type":1}}`, unknown: true},
		{name: "unknown asset type", input: `{"wallet":"W","id":"1","date":1,"type":0,"amount":1,"asset":{"name":"BTC","type":2}}`, unknown: true},
		{name: "missing date", input: `{"wallet":"W","id":"1","type":0,"amount":1,"asset":{"name":"BTC","type":1}}`},
		{name: "broken line", input: depositLine + "\n{"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeEntries(strings.NewReader(tc.input))
			require.Error(t, err)
			var unknown *UnknownEnumError
			assert.Equal(t, tc.unknown, errors.As(err, &unknown), "got %v", err)
		})
	}
}

func TestFractionalDate(t *testing.T) {
	line := `{"wallet":"W","id":"1","groupId":"","date":1704067200.5,"type":0,"amount":1,"asset":{"name":"BTC","type":1}}`
	var e LedgerEntry
	require.NoError(t, json.Unmarshal([]byte(line), &e))
	assert.Equal(t, time.Unix(1704067200, 500_000_000).UTC(), e.Date)

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Equal(t, line, string(data))

	r := Ref{ID: "W-1", Asset: BTC, Amount: D("1"), Date: time.Unix(1704067200, 250_000_000).UTC()}
	data, err = json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date":1704067200.25`)
	var got Ref
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, r.Date, got.Date)
}

func TestDecodeEntriesAt(t *testing.T) {
	doc := `{"meta":{"count":2},"data":{"entries":[` + depositLine + "," + tradeLine + `]}}`

	got, err := DecodeEntriesAt(strings.NewReader(doc), "$.data.entries")
	require.NoError(t, err)
	assertEntries(t, wantEntries(), got)

	_, err = DecodeEntriesAt(strings.NewReader(doc), "$.meta")
	assert.Error(t, err)
}

func TestEncodeEntries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeEntries(&buf, wantEntries()))
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))

	got, err := DecodeEntries(&buf)
	require.NoError(t, err)
	assertEntries(t, wantEntries(), got)
}

func TestChangesRoundTrip(t *testing.T) {
	l := replay(t, Options{ConsolidateUnpriced: true},
		buy("W", "1", at(1), "1000", "0.05", BTC),
		NewSingle(E("W", "2", at(2), KindInterest, "0.001", BTC)),
		NewSingle(E("W", "3", at(2, 1), KindInterest, "0.001", BTC)),
		NewTrade(E("W", "4", at(3), KindTrade, "-0.03", BTC), E("W", "5", at(3), KindTrade, "0.5", ETH)),
		NewTransfer(E("W", "6", at(4), KindWithdrawal, "-0.2", ETH), E("V", "1", at(4), KindDeposit, "0.2", ETH)),
		NewSingle(E("V", "2", at(5), KindWithdrawal, "-0.1", ETH)),
		NewTrade(E("W", "7", at(6), KindTrade, "-0.01", BTC), E("W", "8", at(6), KindTrade, "300", EUR)),
	)

	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, l.Changes()))
	got, err := DecodeChanges(&buf)
	require.NoError(t, err)

	require.Len(t, got, len(l.Changes()))
	whats := make(map[string]bool)
	for i, want := range l.Changes() {
		assert.True(t, want.Equal(got[i]), "change %d of %s", i, want.Transaction.Label())
		for _, c := range want.Changes {
			whats[c.What()] = true
		}
	}
	assert.Equal(t, map[string]bool{"create": true, "join": true, "split": true, "convert": true, "move": true, "remove": true}, whats)
}

func TestTransactionJSON(t *testing.T) {
	tx := NewTrade(E("W", "1", at(1), KindTrade, "-1000", EUR), E("W", "2", at(1), KindTrade, "0.05", BTC))
	data, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `{"trade":{"spend":{"wallet":"W","id":"1",`), string(data))

	got, err := DecodeTransaction(data)
	require.NoError(t, err)
	assert.True(t, tx.Equal(got))

	_, err = DecodeTransaction([]byte(`{"swap":{}}`))
	var unknown *UnknownEnumError
	assert.True(t, errors.As(err, &unknown))

	_, err = DecodeTransaction([]byte(`{"single":{},"trade":{}}`))
	assert.Error(t, err)
}
