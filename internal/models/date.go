package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and display format of a calendar date.
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day, stored at midnight UTC.
type Date struct {
	time.Time
}

// NewDate returns the calendar date of t in t's own location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts a YYYY-MM-DD date or an RFC 3339 timestamp. Timestamps
// keep the calendar date they name in their own offset.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return NewDate(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return NewDate(t), nil
	}
	return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", s)
}

// MustParseDate is ParseDate for literals; it panics on malformed input.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// Before reports whether d is an earlier calendar date than other.
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }

// After reports whether d is a later calendar date than other.
func (d Date) After(other Date) bool { return d.Time.After(other.Time) }

// AddDays returns the date n days later (or earlier when n is negative).
func (d Date) AddDays(n int) Date { return Date{d.AddDate(0, 0, n)} }

// MarshalJSON renders the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses "YYYY-MM-DD" or an RFC 3339 string. An empty string
// leaves the zero date, which callers treat as missing.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s: expected a string", s)
	}
	if strings.TrimSpace(s[1:len(s)-1]) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// GormDataType maps the type to a DATE column.
func (Date) GormDataType() string {
	return "date"
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

// Scan implements sql.Scanner for the shapes drivers return for DATE columns.
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		*d = NewDate(v.UTC())
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) >= len(DateLayout) {
		if t, err := time.Parse(DateLayout, s[:len(DateLayout)]); err == nil {
			*d = Date{t}
			return nil
		}
	}
	return fmt.Errorf("cannot scan %q into Date", s)
}
