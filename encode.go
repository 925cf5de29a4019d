package satsnav

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/PaesslerAG/jsonpath"
	"github.com/pkg/errors"
)

// maxLineSize is the longest JSONL line accepted.
const maxLineSize = 1 << 20

// DecodeEntries decodes ledger entries from either a JSON array or a stream
// of JSONL lines.
func DecodeEntries(r io.Reader) ([]LedgerEntry, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "cannot read entries")
	}
	if first == '[' {
		var entries []LedgerEntry
		if err := json.NewDecoder(br).Decode(&entries); err != nil {
			return nil, errors.Wrap(err, "invalid entries array")
		}
		return entries, nil
	}

	var entries []LedgerEntry
	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := bytes.TrimSpace(scanner.Bytes())
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}
		var e LedgerEntry
		if err := json.Unmarshal(lineBytes, &e); err != nil {
			return nil, errors.Wrapf(err, "invalid entry on line %d", line)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "cannot read entries")
	}
	return entries, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

// DecodeEntriesAt decodes the entries found at a JSONPath expression, like
// "$.data.entries", inside a wrapping JSON document.
func DecodeEntriesAt(r io.Reader, path string) ([]LedgerEntry, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "invalid document")
	}
	selected, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot evaluate %q", path)
	}
	if _, ok := selected.([]any); !ok {
		return nil, errors.Errorf("%q does not select an array", path)
	}
	raw, err := json.Marshal(selected)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot re-encode entries at %q", path)
	}
	var entries []LedgerEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Wrapf(err, "invalid entries at %q", path)
	}
	return entries, nil
}

// EncodeEntries writes entries in JSONL format.
func EncodeEntries(w io.Writer, entries []LedgerEntry) error {
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal entry %s", e.GlobalID())
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return errors.Wrap(err, "failed to write entry")
		}
	}
	return nil
}

// EncodeJSON writes v as indented JSON followed by a newline.
func EncodeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal")
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// DecodeChanges decodes a JSON array of balance changes.
func DecodeChanges(r io.Reader) ([]BalanceChange, error) {
	var changes []BalanceChange
	if err := json.NewDecoder(r).Decode(&changes); err != nil {
		return nil, errors.Wrap(err, "invalid balance changes")
	}
	return changes, nil
}

// DecodeTransactions decodes a JSON array of transactions.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	var raws []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return nil, errors.Wrap(err, "invalid transactions")
	}
	txs := make([]Transaction, 0, len(raws))
	for i, raw := range raws {
		tx, err := DecodeTransaction(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "transaction %d", i)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
