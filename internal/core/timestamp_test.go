package core

import (
	"errors"
	"testing"
	"time"
)

func TestResolveOrderTimestampDefaultsToNow(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 30, 45, 123456789, time.UTC)

	got, err := resolveOrderTimestamp("", "", now)
	if err != nil {
		t.Fatalf("resolveOrderTimestamp failed: %v", err)
	}
	want := time.Date(2026, 3, 14, 10, 30, 45, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestResolveOrderTimestampClientWins(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 30, 45, 0, time.UTC)

	got, err := resolveOrderTimestamp("2026-03-14T08:00:00", "2026-03-13", now)
	if err != nil {
		t.Fatalf("resolveOrderTimestamp failed: %v", err)
	}
	want := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected client timestamp %s to win, got %s", want, got)
	}
}

func TestResolveOrderTimestampOffsetConvertedToUTC(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 30, 45, 0, time.UTC)

	got, err := resolveOrderTimestamp("2026-03-14T08:00:00+03:00", "", now)
	if err != nil {
		t.Fatalf("resolveOrderTimestamp failed: %v", err)
	}
	want := time.Date(2026, 3, 14, 5, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestResolveOrderTimestampNaiveTreatedAsUTC(t *testing.T) {
	now := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)

	got, err := resolveOrderTimestamp("2026-03-14 22:15:30", "", now)
	if err != nil {
		t.Fatalf("resolveOrderTimestamp failed: %v", err)
	}
	if got.Location() != time.UTC {
		t.Errorf("expected UTC result, got zone %s", got.Location())
	}
	want := time.Date(2026, 3, 14, 22, 15, 30, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestResolveOrderTimestampUnparsableClientFallsThrough(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 30, 45, 0, time.UTC)

	got, err := resolveOrderTimestamp("not-a-timestamp", "2026-03-10T09:00:00", now)
	if err != nil {
		t.Fatalf("resolveOrderTimestamp failed: %v", err)
	}
	want := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected fallback to order date %s, got %s", want, got)
	}
}

func TestResolveOrderTimestampBareDateKeepsTimeOfDay(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 30, 45, 0, time.UTC)

	got, err := resolveOrderTimestamp("", "2026-03-10", now)
	if err != nil {
		t.Fatalf("resolveOrderTimestamp failed: %v", err)
	}
	want := time.Date(2026, 3, 10, 10, 30, 45, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestResolveOrderTimestampBadOrderDate(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 30, 45, 0, time.UTC)

	_, err := resolveOrderTimestamp("", "14/03/2026", now)
	if !errors.Is(err, ErrInvalidOrderDate) {
		t.Errorf("expected ErrInvalidOrderDate, got %v", err)
	}
}

func TestResolveOrderTimestampRejectsFuture(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 30, 45, 0, time.UTC)

	_, err := resolveOrderTimestamp("2026-03-14T10:31:00", "", now)
	if !errors.Is(err, ErrFutureOrderDate) {
		t.Errorf("expected ErrFutureOrderDate for future client timestamp, got %v", err)
	}

	_, err = resolveOrderTimestamp("", "2026-03-15", now)
	if !errors.Is(err, ErrFutureOrderDate) {
		t.Errorf("expected ErrFutureOrderDate for future order date, got %v", err)
	}
}

func TestParseDatetimeLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-03-14T08:00:00Z", time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)},
		{"2026-03-14T08:00:00.250000", time.Date(2026, 3, 14, 8, 0, 0, 250000000, time.UTC)},
		{"2026-03-14T08:00", time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)},
		{"2026-03-14 08:00:00", time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, ok := parseDatetime(tc.in)
		if !ok {
			t.Errorf("parseDatetime(%q) did not match any layout", tc.in)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("parseDatetime(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	if _, ok := parseDatetime("2026-03-14"); ok {
		t.Error("bare dates should not parse as datetimes")
	}
}
