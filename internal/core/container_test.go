package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestContainerCountFor(t *testing.T) {
	cases := []struct {
		quantity string
		want     int
	}{
		{"1", 1},
		{"2", 2},
		{"2.000", 2},
		{"0.5", 1},
		{"2.5", 3},
		{"2.01", 3},
	}
	for _, tc := range cases {
		q := decimal.RequireFromString(tc.quantity)
		if got := containerCountFor(q); got != tc.want {
			t.Errorf("containerCountFor(%s) = %d, want %d", tc.quantity, got, tc.want)
		}
	}
}

func TestResolveContainerCount(t *testing.T) {
	two := 2
	qty := decimal.RequireFromString("3.5")

	// Explicit count wins even without the use-container flag.
	got, err := resolveContainerCount(&two, false, qty)
	if err != nil {
		t.Fatalf("resolveContainerCount failed: %v", err)
	}
	if got != 2 {
		t.Errorf("expected explicit count 2, got %d", got)
	}

	// Derived from quantity when containers were requested.
	got, err = resolveContainerCount(nil, true, qty)
	if err != nil {
		t.Fatalf("resolveContainerCount failed: %v", err)
	}
	if got != 4 {
		t.Errorf("expected derived count 4 for quantity 3.5, got %d", got)
	}

	// No containers involved at all.
	got, err = resolveContainerCount(nil, false, qty)
	if err != nil {
		t.Fatalf("resolveContainerCount failed: %v", err)
	}
	if got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestResolveContainerCountRejectsNegative(t *testing.T) {
	neg := -1
	_, err := resolveContainerCount(&neg, true, decimal.NewFromInt(1))
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
}
