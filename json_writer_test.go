package satsnav

import (
	"testing"
)

func TestJsonObjectWriter(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w jsonObjectWriter
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "{}"; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("simple object", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("b", 1)
		w.Append("a", "hello")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"b":1,"a":"hello"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("optional fields", func(t *testing.T) {
		var w jsonObjectWriter
		w.Optional("zero", 0)
		w.Optional("empty", "")
		w.Optional("nil", []string(nil))
		w.Optional("set", []string{"x"})
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"set":["x"]}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("decimals without quotes", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("amount", D("0.00000001"))
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"amount":0.00000001}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("variant", func(t *testing.T) {
		var w jsonObjectWriter
		w.Variant("move", func(b *jsonObjectWriter) {
			b.Append("fromWallet", "W")
			b.Append("toWallet", "V")
		})
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"move":{"fromWallet":"W","toWallet":"V"}}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("error is sticky", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("bad", func() {})
		w.Append("good", 1)
		if _, err := w.MarshalJSON(); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestDecodeVariant(t *testing.T) {
	testCases := []struct {
		input   string
		kind    string
		body    string
		wantErr bool
	}{
		{input: `{"create":{"wallet":"W"}}`, kind: "create", body: `{"wallet":"W"}`},
		{input: `{}`, wantErr: true},
		{input: `{"a":1,"b":2}`, wantErr: true},
		{input: `[]`, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			kind, body, err := decodeVariant([]byte(tc.input), "test")
			if (err != nil) != tc.wantErr {
				t.Fatalf("decodeVariant(%s) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if kind != tc.kind || string(body) != tc.body {
				t.Errorf("decodeVariant(%s) = %q, %s, want %q, %s", tc.input, kind, body, tc.kind, tc.body)
			}
		})
	}
}
