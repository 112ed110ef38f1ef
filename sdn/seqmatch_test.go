package sdn

import (
	"math"
	"testing"
)

// Тесты для SequenceRatio
func TestSequenceRatio_Identical(t *testing.T) {
	if got := SequenceRatio("acme trading", "acme trading"); got != 1.0 {
		t.Errorf("Expected 1.0 for identical strings, got %f", got)
	}
}

func TestSequenceRatio_BothEmpty(t *testing.T) {
	if got := SequenceRatio("", ""); got != 1.0 {
		t.Errorf("Expected 1.0 for two empty strings, got %f", got)
	}
}

func TestSequenceRatio_OneEmpty(t *testing.T) {
	if got := SequenceRatio("acme", ""); got != 0.0 {
		t.Errorf("Expected 0.0 when one string is empty, got %f", got)
	}
}

func TestSequenceRatio_KnownValue(t *testing.T) {
	// Совпадает блок "bcd": 2*3/(4+4) = 0.75
	got := SequenceRatio("abcd", "bcde")
	if math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Expected 0.75, got %f", got)
	}
}

func TestSequenceRatio_Range(t *testing.T) {
	pairs := [][2]string{
		{"acme trading llc", "acme tradimg llc"},
		{"ромашка", "romashka"},
		{"completely", "different"},
		{"a", "aaaa"},
	}

	for _, pair := range pairs {
		got := SequenceRatio(pair[0], pair[1])
		if got < 0.0 || got > 1.0 {
			t.Errorf("SequenceRatio(%q, %q) = %f, out of [0,1]", pair[0], pair[1], got)
		}
	}
}

func TestSequenceRatio_Cyrillic(t *testing.T) {
	// Работа по рунам: кириллическая пара не должна деградировать из-за UTF-8
	got := SequenceRatio("ромашка", "ромашкa") // последняя буква латинская
	if got < 0.8 {
		t.Errorf("Expected high similarity for near-identical Cyrillic strings, got %f", got)
	}
}
