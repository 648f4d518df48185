package model

import (
	"fmt"
	"strconv"
	"time"
)

const dateFormat = "2006-01-02"

// Date is a calendar date without a time component.
type Date struct {
	time.Time
}

// NewDate builds a Date from numeric field strings. Two-digit years are
// interpreted as 2000-based, matching the YYMMDD wire format.
func NewDate(year, month, day string) (Date, error) {
	y, err := atoiField("year", year)
	if err != nil {
		return Date{}, err
	}
	m, err := atoiField("month", month)
	if err != nil {
		return Date{}, err
	}
	d, err := atoiField("day", day)
	if err != nil {
		return Date{}, err
	}
	return MakeDate(expandYear(y), m, d)
}

// MakeDate builds a Date from integer components, rejecting impossible
// dates such as February 30.
func MakeDate(year, month, day int) (Date, error) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return Date{}, fmt.Errorf("invalid date %04d-%02d-%02d", year, month, day)
	}
	return Date{t}, nil
}

// Equal compares two dates by calendar day.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d Date) String() string {
	return d.Format(dateFormat)
}

// MarshalJSON renders the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// DateTime is a timestamp with an optional fixed offset.
type DateTime struct {
	time.Time
}

// NewDateTime builds a DateTime from numeric field strings. The offset, when
// present, is an integer number of minutes east of UTC.
func NewDateTime(year, month, day, hour, minute, offset string) (DateTime, error) {
	y, err := atoiField("year", year)
	if err != nil {
		return DateTime{}, err
	}
	m, err := atoiField("month", month)
	if err != nil {
		return DateTime{}, err
	}
	d, err := atoiField("day", day)
	if err != nil {
		return DateTime{}, err
	}
	h, err := atoiOrZero("hour", hour)
	if err != nil {
		return DateTime{}, err
	}
	min, err := atoiOrZero("minute", minute)
	if err != nil {
		return DateTime{}, err
	}

	loc := time.UTC
	if offset != "" {
		minutes, err := atoiField("offset", offset)
		if err != nil {
			return DateTime{}, err
		}
		loc = time.FixedZone(offset, minutes*60)
	}

	y = expandYear(y)
	t := time.Date(y, time.Month(m), d, h, min, 0, 0, loc)
	if t.Year() != y || t.Month() != time.Month(m) || t.Day() != d {
		return DateTime{}, fmt.Errorf("invalid date %04d-%02d-%02d", y, m, d)
	}
	return DateTime{t}, nil
}

// Date drops the time component.
func (dt DateTime) Date() Date {
	y, m, d := dt.Time.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (dt DateTime) String() string {
	return dt.Format("2006-01-02 15:04:05")
}

// MarshalJSON renders the timestamp as "YYYY-MM-DD HH:MM:SS".
func (dt DateTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(dt.String())), nil
}

// expandYear maps two- and three-digit years into the 2000s, as the wire
// format only carries the final two digits.
func expandYear(year int) int {
	if year < 1000 {
		return year + 2000
	}
	return year
}

func atoiField(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parsing %s %q: %w", name, value, err)
	}
	return n, nil
}

func atoiOrZero(name, value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	return atoiField(name, value)
}
