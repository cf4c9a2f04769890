package certs

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrEmptyRecord indicates the input didn't contain any certificate data
// when attempting to parse.
var ErrEmptyRecord = errors.New("certs: empty record")

// Record is one entry of a crt.sh JSON response. Only the two name fields are
// consumed; everything else in the payload is ignored.
type Record struct {
	CommonName string `json:"common_name"`
	NameValue  string `json:"name_value"`
}

// escapedNewline is the two-character sequence crt.sh output carries when the
// name_value field was double-encoded upstream.
const escapedNewline = `\n`

// Candidates returns the raw candidate hostnames of the record: the common
// name followed by every line of name_value. Real newlines and escaped "\n"
// sequences both act as delimiters. No filtering happens here.
func (r Record) Candidates() []string {
	var out []string
	out = append(out, splitLines(r.CommonName)...)
	out = append(out, splitLines(r.NameValue)...)
	return out
}

func splitLines(field string) []string {
	if field == "" {
		return nil
	}
	field = strings.ReplaceAll(field, escapedNewline, "\n")
	return strings.Split(field, "\n")
}

// Parse decodes a crt.sh JSON array. An empty body, "null" or "[]" yields
// ErrEmptyRecord so callers can treat "no data" uniformly.
func Parse(raw []byte) ([]Record, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, ErrEmptyRecord
	}
	var records []Record
	if err := json.Unmarshal([]byte(trimmed), &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyRecord
	}
	return records, nil
}

// AllCandidates flattens the candidates of every record, preserving order.
func AllCandidates(records []Record) []string {
	var names []string
	for _, r := range records {
		names = append(names, r.Candidates()...)
	}
	return names
}
