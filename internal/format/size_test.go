package format

import (
	"math"
	"testing"
	"time"
)

func TestHumanizeSize(t *testing.T) {
	tests := []struct {
		bytes int64
		value float64
		label string
	}{
		{0, 0, "B"},
		{512, 512, "B"},
		{2048, 2048, "B"},
		{2049, 2049.0 / 1024, "KiB"},
		{1024 * 1024, 1024, "KiB"},
		{3 * 1024 * 1024, 3, "MiB"},
		{5 * 1024 * 1024 * 1024, 5, "GiB"},
		{-4096, -4, "KiB"},
	}

	for _, tt := range tests {
		value, label := HumanizeSize(tt.bytes)
		if label != tt.label {
			t.Errorf("HumanizeSize(%d): expected label %s, got %s", tt.bytes, tt.label, label)
		}
		if math.Abs(value-tt.value) > 1e-9 {
			t.Errorf("HumanizeSize(%d): expected value %f, got %f", tt.bytes, tt.value, value)
		}
	}
}

func TestHumanizeSizeLargestUnit(t *testing.T) {
	_, label := HumanizeSize(math.MaxInt64)
	if label != "EiB" {
		t.Errorf("expected EiB for the largest value, got %s", label)
	}
}

func TestBytesAndRate(t *testing.T) {
	if got := Bytes(1536); got != "1.5 KiB" {
		t.Errorf("expected 1.5 KiB, got %s", got)
	}
	if got := Bytes(-1536); got != "-1.5 KiB" {
		t.Errorf("expected -1.5 KiB, got %s", got)
	}
	if got := Rate(0); got != "0 B/s" {
		t.Errorf("expected 0 B/s, got %s", got)
	}
	if got := Rate(2048); got != "2.0 KiB/s" {
		t.Errorf("expected 2.0 KiB/s, got %s", got)
	}
}

func TestDuration(t *testing.T) {
	if got := Duration(1500 * time.Millisecond); got != "2s" {
		t.Errorf("expected 2s, got %s", got)
	}
}
