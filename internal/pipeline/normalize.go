// Package pipeline turns raw certificate name strings into a sorted,
// deduplicated hostname list.
package pipeline

import (
	"sort"
	"strings"
	"unicode"
)

// wildcardMarker is the prefix of a wildcard certificate name.
const wildcardMarker = "*."

// Step is one transform/predicate over a candidate line. Returning false
// drops the line from the rest of the pipeline.
type Step struct {
	Name  string
	Apply func(line string) (string, bool)
}

// StripWildcard removes the leading "*." marker. Stacked markers ("*.*.")
// are removed too so no output line starts with one.
func StripWildcard() Step {
	return Step{Name: "strip-wildcard", Apply: func(line string) (string, bool) {
		for strings.HasPrefix(line, wildcardMarker) {
			line = line[len(wildcardMarker):]
		}
		return line, true
	}}
}

// DropContaining discards lines containing sub.
func DropContaining(sub string) Step {
	return Step{Name: "drop-" + sub, Apply: func(line string) (string, bool) {
		return line, !strings.Contains(line, sub)
	}}
}

// DropWhitespace discards lines with any whitespace rune, including
// leading or trailing ones.
func DropWhitespace() Step {
	return Step{Name: "drop-whitespace", Apply: func(line string) (string, bool) {
		return line, strings.IndexFunc(line, unicode.IsSpace) < 0
	}}
}

// KeepDotted keeps only lines containing at least one '.'.
func KeepDotted() Step {
	return Step{Name: "keep-dotted", Apply: func(line string) (string, bool) {
		return line, strings.Contains(line, ".")
	}}
}

// TrimSpace trims surrounding whitespace.
func TrimSpace() Step {
	return Step{Name: "trim", Apply: func(line string) (string, bool) {
		return strings.TrimSpace(line), true
	}}
}

// DefaultSteps is the hostname cleaning sequence, in order.
func DefaultSteps() []Step {
	return []Step{
		StripWildcard(),
		DropContaining("@"),
		DropWhitespace(),
		KeepDotted(),
		TrimSpace(),
	}
}

// StepMetric counts how many lines a step discarded.
type StepMetric struct {
	Name    string
	Dropped int
}

// Report is the outcome of a pipeline run.
type Report struct {
	Input      int
	Hostnames  []string
	Duplicates int
	Steps      []StepMetric
}

// Run applies steps to every line, then sorts and removes exact duplicates.
func Run(lines []string, steps []Step) Report {
	metrics := make([]StepMetric, len(steps))
	for i, s := range steps {
		metrics[i].Name = s.Name
	}

	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if v, ok := apply(line, steps, metrics); ok {
			kept = append(kept, v)
		}
	}

	unique := SortUnique(kept)
	return Report{
		Input:      len(lines),
		Hostnames:  unique,
		Duplicates: len(kept) - len(unique),
		Steps:      metrics,
	}
}

func apply(line string, steps []Step, metrics []StepMetric) (string, bool) {
	for i, s := range steps {
		var ok bool
		line, ok = s.Apply(line)
		if !ok {
			metrics[i].Dropped++
			return "", false
		}
	}
	return line, true
}

// Normalize runs DefaultSteps over lines and returns the hostname set.
func Normalize(lines []string) []string {
	return Run(lines, DefaultSteps()).Hostnames
}

// SortUnique returns a sorted copy of lines without exact duplicates.
func SortUnique(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	sorted := append([]string(nil), lines...)
	sort.Strings(sorted)

	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
