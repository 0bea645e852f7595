// Package recurrence detects repeating transaction patterns (rent,
// salaries, subscriptions) from description and date-interval analysis and
// suggests a schedule rule for each.
package recurrence

import (
	"encoding/json"
	"fmt"
	"time"
)

// Frequency is the cadence of a recurring transaction.
type Frequency string

const (
	Daily   Frequency = "DAILY"
	Weekly  Frequency = "WEEKLY"
	Monthly Frequency = "MONTHLY"
	Yearly  Frequency = "YEARLY"
)

// Valid reports whether f is a known frequency. The detector only ever
// suggests weekly, monthly or yearly rules; daily exists for rules
// applied directly by users.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Rule describes the schedule of a recurring transaction. DayOfMonth is
// optional; zero means unset.
type Rule struct {
	Frequency  Frequency `json:"frequency"`
	Interval   int       `json:"interval"`
	StartDate  time.Time `json:"startDate"`
	DayOfMonth int       `json:"dayOfMonth,omitempty"`
}

// Validate checks that a rule, typically decoded from a client request,
// is internally consistent.
func (r Rule) Validate() error {
	if !r.Frequency.Valid() {
		return fmt.Errorf("invalid frequency: %q", r.Frequency)
	}
	if r.Interval < 1 {
		return fmt.Errorf("interval must be at least 1, got %d", r.Interval)
	}
	if r.DayOfMonth != 0 && (r.DayOfMonth < 1 || r.DayOfMonth > 31) {
		return fmt.Errorf("dayOfMonth must be between 1 and 31, got %d", r.DayOfMonth)
	}
	if r.StartDate.IsZero() {
		return fmt.Errorf("startDate is required")
	}
	return nil
}

// MarshalJSONString serializes the rule for storage alongside the
// transaction record.
func (r Rule) MarshalJSONString() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshaling recurrence rule: %w", err)
	}
	return string(b), nil
}

// ParseRule decodes a stored rule string.
func ParseRule(s string) (Rule, error) {
	var r Rule
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return Rule{}, fmt.Errorf("parsing recurrence rule: %w", err)
	}
	return r, nil
}
