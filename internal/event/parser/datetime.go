package parser

import (
	"errors"
	"net/mail"
	"regexp"
	"strconv"
	"time"
)

// ErrNoDateTime reports that the text does not contain both a date and a
// time, or that the digits found do not form a valid calendar moment. The
// orchestrator maps it to processing status "failed".
var ErrNoDateTime = errors.New("no usable date/time in text")

var (
	dateRe = regexp.MustCompile(`(\d{4})[/-](\d{1,2})[/-](\d{1,2})`)
	timeRe = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
)

// ExtractStartAt scans text for the first YYYY-M-D (or slash-separated)
// date and the first H:MM time and combines them in loc. Multiple
// occurrences are not disambiguated; the first of each wins.
func ExtractStartAt(text string, loc *time.Location) (time.Time, error) {
	dm := dateRe.FindStringSubmatch(text)
	tm := timeRe.FindStringSubmatch(text)
	if dm == nil || tm == nil {
		return time.Time{}, ErrNoDateTime
	}

	year, _ := strconv.Atoi(dm[1])
	month, _ := strconv.Atoi(dm[2])
	day, _ := strconv.Atoi(dm[3])
	hour, _ := strconv.Atoi(tm[1])
	minute, _ := strconv.Atoi(tm[2])

	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 {
		return time.Time{}, ErrNoDateTime
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
	// time.Date normalizes overflow (2025-02-31 becomes March); treat that
	// as no usable date rather than a silently shifted one.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, ErrNoDateTime
	}
	return t, nil
}

// ParseHeaderDate converts an RFC-2822 Date header to the reference zone,
// falling back to the current time when the header is absent or malformed.
func ParseHeaderDate(s string, loc *time.Location) time.Time {
	if s == "" {
		return time.Now().In(loc)
	}
	t, err := mail.ParseDate(s)
	if err != nil {
		return time.Now().In(loc)
	}
	return t.In(loc)
}
