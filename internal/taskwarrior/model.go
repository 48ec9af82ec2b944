package taskwarrior

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	StatusPending   = "pending"
	StatusWaiting   = "waiting"
	StatusCompleted = "completed"
	StatusDone      = "done"
	StatusDeleted   = "deleted"
)

// timeLayout is taskwarrior's export timestamp format, always UTC.
const timeLayout = "20060102T150405Z"

// Time wraps time.Time with taskwarrior's JSON encoding.
type Time struct {
	time.Time
}

// UnmarshalJSON implements the json.Unmarshaler interface for Time.
func (t *Time) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := time.Parse(timeLayout, s)
	if err != nil {
		return fmt.Errorf("failed to parse taskwarrior time %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Time.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.UTC().Format(timeLayout) + `"`), nil
}

// Task is one task as exported by `task export`. ID is the working-set number
// taskwarrior assigns per report and goes stale after any modification; UUID
// is the stable identity and is what notes are keyed on.
type Task struct {
	ID          int      `json:"id"`
	UUID        string   `json:"uuid"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Estimate    string   `json:"estimate,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Wait        *Time    `json:"wait,omitempty"`
}

// HasTag reports whether the task carries the given tag.
func (t Task) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// CompareEstimates orders two estimate values for display. When both parse
// as integers they compare numerically, otherwise lexicographically. An
// empty estimate sorts after everything so unordered tasks collect at the
// bottom of the list.
func CompareEstimates(a, b string) int {
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}

	an, aerr := strconv.Atoi(a)
	bn, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}

	return strings.Compare(a, b)
}
