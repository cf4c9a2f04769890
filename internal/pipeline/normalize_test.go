package pipeline

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"crtsh-subs/internal/certs"
)

func TestNormalizeCrtshRecord(t *testing.T) {
	t.Parallel()

	records, err := certs.Parse([]byte(`[{"common_name":"*.a.example.com","name_value":"a.example.com\nb@example.com\nbadline withspace\nc.example.com"}]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := Normalize(certs.AllCandidates(records))
	want := []string{"a.example.com", "c.example.com"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected hostnames (-want +got):\n%s", diff)
	}
}

func TestStripWildcard(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"*.example.com":   "example.com",
		"*.*.example.com": "example.com",
		"example.com":     "example.com",
		"a.*.example.com": "a.*.example.com",
		"x*.example.com":  "x*.example.com",
		"*example.com":    "*example.com",
		"*.":              "",
		"":                "",
	}
	step := StripWildcard()
	for in, want := range cases {
		got, ok := step.Apply(in)
		if !ok || got != want {
			t.Errorf("StripWildcard(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
}

func TestNormalizeFilters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"at sign", []string{"admin@example.com", "mail.example.com"}, []string{"mail.example.com"}},
		{"space", []string{"bad line.com", "good.example.com"}, []string{"good.example.com"}},
		{"tab", []string{"tab\tline.com"}, nil},
		{"carriage return", []string{"cr.example.com\r"}, nil},
		{"leading space", []string{" lead.example.com"}, nil},
		{"no dot", []string{"localhost", "intranet", "www.example.com"}, []string{"www.example.com"}},
		{"empty", []string{"", ""}, nil},
		{"dedupe and sort", []string{"b.example.com", "a.example.com", "*.b.example.com", "a.example.com"}, []string{"a.example.com", "b.example.com"}},
		{"case kept", []string{"A.example.com", "a.example.com"}, []string{"A.example.com", "a.example.com"}},
		{"wildcard then at", []string{"*.x@example.com"}, nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Normalize(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Normalize(%q) (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestNormalizeInvariants(t *testing.T) {
	t.Parallel()

	in := []string{
		"*.example.com", "*.*.deep.example.com", "example.com", "user@example.com",
		"with space.example.com", "nodot", "\tindent.example.com", "x.example.com",
		"x.example.com", "Z.example.org", "*.", ".", "..", "a b.example.com",
	}

	first := Normalize(in)
	for _, h := range first {
		if strings.Contains(h, "@") {
			t.Errorf("%q contains '@'", h)
		}
		if strings.ContainsAny(h, " \t\r\n ") {
			t.Errorf("%q contains whitespace", h)
		}
		if !strings.Contains(h, ".") {
			t.Errorf("%q has no dot", h)
		}
		if strings.HasPrefix(h, "*.") {
			t.Errorf("%q starts with a wildcard", h)
		}
	}

	if diff := cmp.Diff(first, Normalize(first)); diff != "" {
		t.Fatalf("Normalize is not idempotent (-first +second):\n%s", diff)
	}
}

func TestRunReport(t *testing.T) {
	t.Parallel()

	in := []string{"a.example.com", "a.example.com", "x@example.com", "bad line", "nodot", "*.b.example.com"}
	report := Run(in, DefaultSteps())

	if report.Input != 6 {
		t.Errorf("Input = %d, want 6", report.Input)
	}
	if report.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", report.Duplicates)
	}
	want := []StepMetric{
		{Name: "strip-wildcard"},
		{Name: "drop-@", Dropped: 1},
		{Name: "drop-whitespace", Dropped: 1},
		{Name: "keep-dotted", Dropped: 1},
		{Name: "trim"},
	}
	if diff := cmp.Diff(want, report.Steps); diff != "" {
		t.Fatalf("unexpected step metrics (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a.example.com", "b.example.com"}, report.Hostnames); diff != "" {
		t.Fatalf("unexpected hostnames (-want +got):\n%s", diff)
	}
}

func TestCustomSteps(t *testing.T) {
	t.Parallel()

	lower := Step{Name: "lower", Apply: func(line string) (string, bool) {
		return strings.ToLower(line), true
	}}
	got := Run([]string{"A.Example.com", "a.example.COM"}, append(DefaultSteps(), lower)).Hostnames
	if diff := cmp.Diff([]string{"a.example.com"}, got); diff != "" {
		t.Fatalf("unexpected hostnames (-want +got):\n%s", diff)
	}
}

func TestSortUnique(t *testing.T) {
	t.Parallel()

	if got := SortUnique(nil); got != nil {
		t.Fatalf("SortUnique(nil) = %v, want nil", got)
	}
	in := []string{"c", "a", "b", "a", "c"}
	if diff := cmp.Diff([]string{"a", "b", "c"}, SortUnique(in)); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"c", "a", "b", "a", "c"}, in); diff != "" {
		t.Fatalf("SortUnique mutated its input (-want +got):\n%s", diff)
	}
}
