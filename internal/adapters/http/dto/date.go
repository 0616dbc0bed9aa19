package dto

import (
	"bytes"
	"fmt"
	"time"

	"github.com/boostclient/boostclient-service/internal/domain"
)

// Date is a calendar date encoded as "YYYY-MM-DD" in JSON.
type Date time.Time

// NewDate returns the Date of t, or nil when t is the zero time.
func NewDate(t time.Time) *Date {
	if t.IsZero() {
		return nil
	}

	d := Date(domain.TruncateToDate(t))

	return &d
}

// Time returns the date at UTC midnight.
func (d Date) Time() time.Time {
	return time.Time(d)
}

// String implements fmt.Stringer.
func (d Date) String() string {
	return time.Time(d).Format(time.DateOnly)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler. A full RFC 3339 timestamp is
// accepted and truncated to its date.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("date must be a string, got %s", data)
	}

	raw := string(data[1 : len(data)-1])

	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		t, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("invalid date %q: want YYYY-MM-DD", raw)
		}
	}

	*d = Date(domain.TruncateToDate(t))

	return nil
}

func (d *Date) timeOrZero() time.Time {
	if d == nil {
		return time.Time{}
	}

	return d.Time()
}

func (d *Date) timePtr() *time.Time {
	if d == nil {
		return nil
	}

	t := d.Time()

	return &t
}
