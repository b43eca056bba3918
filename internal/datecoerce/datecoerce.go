// Package datecoerce turns free-text date expressions ("next friday",
// "in 3 days", "2026-08-01") into time.Time values for date-kind
// properties, using the same natural-language parser the teacher pulls
// in for its own due-date handling.
package datecoerce

import (
	"fmt"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var parser = newParser()

func newParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// Parse resolves text relative to now into a time.Time. It tries RFC3339
// first since that's the form snapshots round-trip through, then falls
// back to the natural-language parser for anything a human typed by hand.
func Parse(text string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, text); err == nil {
		return t, nil
	}

	r, err := parser.Parse(text, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("datecoerce: %w", err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("datecoerce: could not resolve %q to a date", text)
	}
	return r.Time, nil
}

// Coerce converts raw into a time.Time for a date-kind property. It is a
// no-op for values that are already time.Time, and parses strings via
// Parse; any other shape is rejected.
func Coerce(raw any, now time.Time) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		return Parse(v, now)
	default:
		return time.Time{}, fmt.Errorf("datecoerce: cannot coerce %T to a date", raw)
	}
}
