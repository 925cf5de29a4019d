package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/satsnav"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ledger = `{"wallet":"Bank","id":"1","groupId":"t1","date":1704110400,"type":"trade","amount":-2000,"asset":{"name":"EUR","type":0}}
{"wallet":"Bank","id":"2","groupId":"t1","date":1704110400,"type":"trade","amount":0.1,"asset":{"name":"BTC","type":1}}
{"wallet":"Bank","id":"3","date":1704283200,"type":"withdrawal","amount":-0.04,"asset":{"name":"BTC","type":1}}
{"wallet":"Cold","id":"1","date":1704286800,"type":"deposit","amount":0.04,"asset":{"name":"BTC","type":1}}
`

// writeFile creates a temporary file with content and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// setFlag points a global flag to value for the duration of the test.
func setFlag[T any](t *testing.T, p **T, value T) {
	t.Helper()
	old := *p
	*p = &value
	t.Cleanup(func() { *p = old })
}

// execute runs c with the given arguments.
func execute(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	require.NoError(t, f.Parse(args))
	return c.Execute(context.Background(), f)
}

func TestDecodeConfig(t *testing.T) {
	setFlag(t, &configFile, writeFile(t, "satsnav.yaml", "base: USD\npolicy: fifo\nentries: a.jsonl\n"))
	setFlag(t, &entriesFile, "b.jsonl")
	setFlag(t, &policy, "lifo")

	c, err := DecodeConfig()
	require.NoError(t, err)
	assert.Equal(t, satsnav.NewAsset("USD", satsnav.Fiat), c.Base)
	assert.Equal(t, satsnav.LIFO, c.Policy, "flags override the file")
	assert.Equal(t, "b.jsonl", c.Entries)

	setFlag(t, &baseAsset, "EUR:paper")
	_, err = DecodeConfig()
	assert.Error(t, err)
}

func TestDecodeConfigMissingFile(t *testing.T) {
	setFlag(t, &configFile, filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := DecodeConfig()
	assert.Error(t, err)
}

func TestDecodeOverrides(t *testing.T) {
	m, err := DecodeOverrides(satsnav.Config{})
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = DecodeOverrides(satsnav.Config{Overrides: writeFile(t, "o.json", `{"Bank-3": {"ignored": true}}`)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bank-3"}, m.IgnoredIDs())
}

func TestFmt(t *testing.T) {
	input := `{"asset":{"type":1,"name":"BTC"},"amount":"0.10","type":"deposit","date":1704110400,"id":"1","wallet":"W"}` + "\n\n"
	want := `{"wallet":"W","id":"1","groupId":"","date":1704110400,"type":0,"amount":0.1,"asset":{"name":"BTC","type":1}}` + "\n"

	path := writeFile(t, "entries.jsonl", input)
	setFlag(t, &entriesFile, path)
	assert.Equal(t, subcommands.ExitSuccess, execute(t, &fmtCmd{}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, string(got))
}

func TestFmtWrappedEntries(t *testing.T) {
	path := writeFile(t, "export.json", `{"data": {"entries": [{"wallet":"W","id":"1","date":1704110400,"type":0,"amount":1,"asset":{"name":"BTC","type":1}}]}}`)
	setFlag(t, &entriesFile, path)
	setFlag(t, &entriesPath, "$.data.entries")
	assert.Equal(t, subcommands.ExitUsageError, execute(t, &fmtCmd{}))

	out := filepath.Join(t.TempDir(), "entries.jsonl")
	assert.Equal(t, subcommands.ExitSuccess, execute(t, &fmtCmd{}, "-o", out))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, `{"wallet":"W","id":"1","groupId":"","date":1704110400,"type":0,"amount":1,"asset":{"name":"BTC","type":1}}`+"\n", string(got))
}

func TestGraph(t *testing.T) {
	setFlag(t, &entriesFile, writeFile(t, "entries.jsonl", ledger))

	fromLedger := filepath.Join(t.TempDir(), "ledger.dot")
	require.Equal(t, subcommands.ExitSuccess, execute(t, &graphCmd{}, "-o", fromLedger))
	dot, err := os.ReadFile(fromLedger)
	require.NoError(t, err)
	assert.Contains(t, string(dot), "digraph BalanceChanges {")
	assert.Contains(t, string(dot), `label="Cold"`)

	// The same graph is built from the changes written by 'changes'.
	r, _, err := reconcile()
	require.NoError(t, err)
	f, err := os.Create(filepath.Join(t.TempDir(), "changes.json"))
	require.NoError(t, err)
	require.NoError(t, satsnav.EncodeJSON(f, r.Changes))
	require.NoError(t, f.Close())

	fromChanges := filepath.Join(t.TempDir(), "changes.dot")
	require.Equal(t, subcommands.ExitSuccess, execute(t, &graphCmd{}, "-changes", f.Name(), "-o", fromChanges))
	got, err := os.ReadFile(fromChanges)
	require.NoError(t, err)
	assert.Equal(t, string(dot), string(got))
}

func TestDetail(t *testing.T) {
	setFlag(t, &entriesFile, writeFile(t, "entries.jsonl", ledger))
	assert.Equal(t, subcommands.ExitUsageError, execute(t, &detailCmd{}))
	assert.Equal(t, subcommands.ExitFailure, execute(t, &detailCmd{}, "-id", "Bank-9"))
	assert.Equal(t, subcommands.ExitSuccess, execute(t, &detailCmd{}, "-id", "Cold-1"))

	assert.Equal(t, subcommands.ExitSuccess, execute(t, &detailCmd{}, "-ref", "Bank-2~2"))
	assert.Equal(t, subcommands.ExitFailure, execute(t, &detailCmd{}, "-ref", "Bank-9"))
	assert.Equal(t, subcommands.ExitUsageError, execute(t, &detailCmd{}, "-id", "Cold-1", "-ref", "Bank-2"))
}

func TestVerify(t *testing.T) {
	setFlag(t, &entriesFile, writeFile(t, "entries.jsonl", ledger))
	assert.Equal(t, subcommands.ExitSuccess, execute(t, &verifyCmd{}))

	setFlag(t, &entriesFile, filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Equal(t, subcommands.ExitFailure, execute(t, &verifyCmd{}))
}
