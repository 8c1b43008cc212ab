package services

import (
	"testing"
)

func TestUnitOptions(t *testing.T) {
	if len(UnitOptions) == 0 {
		t.Fatal("UnitOptions should not be empty")
	}

	expected := map[string]bool{
		"pcs": true, "sq.m": true, "cu.m": true, "kg": true, "l.s.": true,
	}
	found := make(map[string]bool)
	for _, opt := range UnitOptions {
		if opt == "" {
			t.Error("UnitOptions contains empty string")
		}
		if found[opt] {
			t.Errorf("UnitOptions contains %q twice", opt)
		}
		found[opt] = true
	}
	for k := range expected {
		if !found[k] {
			t.Errorf("expected unit option %q not found", k)
		}
	}
}

func TestMarkupOptions(t *testing.T) {
	for i, v := range MarkupOptions {
		if v < 0 {
			t.Errorf("MarkupOptions[%d] = %v, want non-negative", i, v)
		}
		if i > 0 && v <= MarkupOptions[i-1] {
			t.Errorf("MarkupOptions not ascending at %d", i)
		}
	}
}

func TestRowKindOptions(t *testing.T) {
	if len(RowKindOptions) != len(RowKinds) {
		t.Fatalf("expected %d row kind options, got %d", len(RowKinds), len(RowKindOptions))
	}
	for i, opt := range RowKindOptions {
		if opt.Kind != RowKinds[i] {
			t.Errorf("option %d kind = %q, want %q", i, opt.Kind, RowKinds[i])
		}
		if opt.Label == "" {
			t.Errorf("option %q has no label", opt.Kind)
		}
	}
}
