package service

import (
	"strings"
	"time"

	"github.com/JYunth/wattswap-sim-backend/internal/models"
)

// TimeRange bounds a timeseries query by simulated time.
type TimeRange struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
}

// LogFilter supports history filtering by meter, time range, severity and category.
type LogFilter struct {
	MeterID  string
	From     time.Time
	To       time.Time
	Severity string // "", "info", "warning", "error"
	Category string
	Limit    int // 0 means no limit
}

var errInvalidTimeRange = models.Invalid("time_range", "from must be <= to")

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeRange(r TimeRange) (TimeRange, error) {
	out := TimeRange{From: normalizeToUTC(r.From), To: normalizeToUTC(r.To)}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return TimeRange{}, errInvalidTimeRange
	}
	return out, nil
}

// normalizeSeverity trims spaces and lowercases the severity filter.
func normalizeSeverity(s string) (models.Severity, error) {
	sev := models.Severity(strings.ToLower(strings.TrimSpace(s)))
	if sev != "" && !sev.Valid() {
		return "", models.Invalid("severity", "must be info, warning or error, got %q", s)
	}
	return sev, nil
}

// normalizeAndValidateFilter prepares query parameters and validates them.
func normalizeAndValidateFilter(f LogFilter) (LogFilter, error) {
	r, err := normalizeRange(TimeRange{From: f.From, To: f.To})
	if err != nil {
		return LogFilter{}, err
	}
	sev, err := normalizeSeverity(f.Severity)
	if err != nil {
		return LogFilter{}, err
	}
	if f.Limit < 0 {
		return LogFilter{}, models.Invalid("limit", "must be >= 0")
	}
	return LogFilter{
		MeterID:  strings.TrimSpace(f.MeterID),
		From:     r.From,
		To:       r.To,
		Severity: string(sev),
		Category: strings.ToLower(strings.TrimSpace(f.Category)),
		Limit:    f.Limit,
	}, nil
}
