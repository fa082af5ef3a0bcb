package core

import (
	"fmt"
	"time"
)

// datetimeLayouts are the accepted datetime shapes for client timestamps and
// order dates, tried in order. The offset-less layouts parse to UTC.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

const dateOnlyLayout = "2006-01-02"

// parseDatetime tries each accepted layout and reports whether any matched.
func parseDatetime(s string) (time.Time, bool) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// resolveOrderTimestamp picks the timestamp stored on an order.
//
// Priority: clientTimestamp when it parses, then orderDate, then now.
// A client timestamp with a zone offset is converted to UTC; one without an
// offset is taken as already UTC, not local time — a deliberate compatibility
// quirk. A client timestamp that fails to parse falls through silently (the
// raw string is still persisted on the sale); an orderDate that fails to
// parse is an error. A bare-date orderDate is combined with the current
// time of day.
//
// A resolved timestamp strictly later than now fails with ErrFutureOrderDate.
// The result is truncated to whole seconds, in UTC.
func resolveOrderTimestamp(clientTimestamp, orderDate string, now time.Time) (time.Time, error) {
	now = now.UTC()

	var resolved time.Time
	if clientTimestamp != "" {
		if t, ok := parseDatetime(clientTimestamp); ok {
			resolved = t.UTC()
		}
	}

	if resolved.IsZero() && orderDate != "" {
		if t, ok := parseDatetime(orderDate); ok {
			resolved = t.UTC()
		} else if d, err := time.Parse(dateOnlyLayout, orderDate); err == nil {
			resolved = time.Date(d.Year(), d.Month(), d.Day(),
				now.Hour(), now.Minute(), now.Second(), 0, time.UTC)
		} else {
			return time.Time{}, fmt.Errorf("unparsable order_date %q: %w", orderDate, ErrInvalidOrderDate)
		}
	}

	if resolved.IsZero() {
		return now.Truncate(time.Second), nil
	}
	if resolved.After(now) {
		return time.Time{}, fmt.Errorf("resolved timestamp %s is after server time %s: %w",
			resolved.Format(time.RFC3339), now.Format(time.RFC3339), ErrFutureOrderDate)
	}
	return resolved.Truncate(time.Second), nil
}
