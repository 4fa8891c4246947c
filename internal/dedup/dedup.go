// Package dedup flags likely duplicates among AI-extracted candidate
// transactions before they are confirmed into the ledger. A batch statement
// scan frequently overlaps transactions the user already entered by hand or
// that arrived through the email webhook; the review UI uses these flags to
// pre-deselect candidates.
package dedup

import (
	"strings"
	"time"
)

// dateWindow is the maximum timestamp difference, inclusive, for two
// transactions to count as the same purchase.
const dateWindow = 24 * time.Hour

// Candidate is a newly extracted transaction to be checked.
type Candidate struct {
	Amount            int     `json:"amount"`
	Description       string  `json:"description"`
	Date              string  `json:"date"`
	SuggestedCategory *string `json:"suggested_category,omitempty"`
}

// Existing is an already persisted transaction to compare against.
type Existing struct {
	Amount      int    `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// Result is a candidate augmented with the duplicate flag.
type Result struct {
	Candidate
	IsDuplicate bool `json:"is_duplicate"`
}

// Detect marks each candidate as a duplicate if some existing transaction
// has the exact same amount, a date within 24 hours (inclusive), and a
// normalized description that equals or contains (either direction) the
// candidate's. Output order matches input order; neither slice is mutated.
//
// Dates that fail to parse never match: the check fails open and the
// candidate passes through unflagged.
func Detect(candidates []Candidate, existing []Existing) []Result {
	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, Result{
			Candidate:   c,
			IsDuplicate: isDuplicate(c, existing),
		})
	}
	return results
}

func isDuplicate(c Candidate, existing []Existing) bool {
	cDate, cOK := parseDate(c.Date)
	cDesc := normalizeDescription(c.Description)

	for _, e := range existing {
		if c.Amount != e.Amount {
			continue
		}

		eDate, eOK := parseDate(e.Date)
		if !cOK || !eOK {
			continue
		}
		diff := cDate.Sub(eDate)
		if diff < 0 {
			diff = -diff
		}
		if diff > dateWindow {
			continue
		}

		eDesc := normalizeDescription(e.Description)
		if cDesc == eDesc || strings.Contains(cDesc, eDesc) || strings.Contains(eDesc, cDesc) {
			return true
		}
	}
	return false
}

// normalizeDescription lowercases, trims, and collapses internal whitespace
// runs to single spaces.
func normalizeDescription(desc string) string {
	return strings.Join(strings.Fields(strings.ToLower(desc)), " ")
}

// dateLayouts are tried in order. They cover the ISO 8601 shapes produced by
// the extraction schemas and the date-only form used for statement lines.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
