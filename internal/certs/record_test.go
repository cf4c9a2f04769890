package certs

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseAndCandidates(t *testing.T) {
	t.Parallel()

	raw := []byte(`[{"common_name":"*.a.example.com","name_value":"a.example.com\nb@example.com\nbadline withspace\nc.example.com","issuer_name":"C=US, O=Let's Encrypt"}]`)

	records, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	want := []string{
		"*.a.example.com",
		"a.example.com",
		"b@example.com",
		"badline withspace",
		"c.example.com",
	}
	if diff := cmp.Diff(want, records[0].Candidates()); diff != "" {
		t.Fatalf("unexpected candidates (-want +got):\n%s", diff)
	}
}

func TestCandidatesEscapedNewlines(t *testing.T) {
	t.Parallel()

	r := Record{CommonName: "x.example.com", NameValue: `one.example.com\ntwo.example.com`}
	want := []string{"x.example.com", "one.example.com", "two.example.com"}
	if diff := cmp.Diff(want, r.Candidates()); diff != "" {
		t.Fatalf("unexpected candidates (-want +got):\n%s", diff)
	}
}

func TestCandidatesEmptyFields(t *testing.T) {
	t.Parallel()

	if got := (Record{}).Candidates(); len(got) != 0 {
		t.Fatalf("expected no candidates, got %v", got)
	}
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "[]", "null", " [ ] "} {
		if _, err := Parse([]byte(raw)); !errors.Is(err, ErrEmptyRecord) {
			t.Errorf("Parse(%q) error = %v, want ErrEmptyRecord", raw, err)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("<html>502 Bad Gateway</html>"))
	if err == nil || errors.Is(err, ErrEmptyRecord) {
		t.Fatalf("expected JSON error, got %v", err)
	}
}

func TestAllCandidates(t *testing.T) {
	t.Parallel()

	records := []Record{
		{CommonName: "a.example.com", NameValue: "a.example.com"},
		{CommonName: "b.example.com", NameValue: "c.example.com\nd.example.com"},
	}
	want := []string{"a.example.com", "a.example.com", "b.example.com", "c.example.com", "d.example.com"}
	if diff := cmp.Diff(want, AllCandidates(records)); diff != "" {
		t.Fatalf("unexpected candidates (-want +got):\n%s", diff)
	}
}
