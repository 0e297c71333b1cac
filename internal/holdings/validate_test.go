package holdings

import (
	"testing"

	"github.com/jhagglund/navpulse/internal/models"
)

func TestValidate_Accepts(t *testing.T) {
	cases := [][]models.Holding{
		{h("A", "0.6"), h("B", "0.4")},
		{h("A", "1.0")},
		// Sum 0.99 and 1.015: both inside the 0.02 tolerance.
		{h("A", "0.5"), h("B", "0.49")},
		{h("A", "0.5"), h("B", "0.515")},
	}
	for i, hs := range cases {
		if err := Validate(hs, tol); err != nil {
			t.Fatalf("case %d: expected acceptance, got %v", i, err)
		}
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name string
		hs   []models.Holding
	}{
		{"empty table", nil},
		{"weight sum 0.85", []models.Holding{h("A", "0.5"), h("B", "0.35")}},
		{"weight sum 1.1", []models.Holding{h("A", "0.6"), h("B", "0.5")}},
		{"duplicate ticker", []models.Holding{h("A", "0.5"), h("A", "0.5")}},
		{"empty ticker", []models.Holding{h("", "1.0")}},
		{"zero weight", []models.Holding{h("A", "0"), h("B", "1.0")}},
		{"negative weight", []models.Holding{h("A", "-0.1"), h("B", "1.1")}},
		{"weight above 1", []models.Holding{h("A", "1.2")}},
	}
	for _, c := range cases {
		if err := Validate(c.hs, tol); err == nil {
			t.Fatalf("%s: expected rejection", c.name)
		}
	}
}
