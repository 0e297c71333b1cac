package holdings

import (
	"strings"
	"testing"
)

const remoteCSV = `iShares holdings export
Fund Holdings as of,"28-Aug-2026"
Ticker,Name,Sector,Asset Class,Market Value,Weight (%)
AAPL,APPLE INC,Information Technology,Equity,"1,234,567.89",60.00
MSFT,MICROSOFT CORP,Information Technology,Equity,"987,654.32",40.00

"The content above is provided for information purposes only."
`

func TestParseCSVTable_SkipsPreambleAndDisclaimer(t *testing.T) {
	hs, err := parseCSVTable(strings.NewReader(remoteCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(hs) != 2 {
		t.Fatalf("expected 2 holdings, got %d: %+v", len(hs), hs)
	}
	if hs[0].Ticker != "AAPL" || hs[0].Weight.String() != "0.6" {
		t.Fatalf("AAPL row: %+v", hs[0])
	}
	if hs[1].Ticker != "MSFT" || hs[1].Weight.String() != "0.4" {
		t.Fatalf("MSFT row: %+v", hs[1])
	}
}

func TestParseCSVTable_PlainSnapshot(t *testing.T) {
	csv := "Ticker,Weight\nA,0.6\nB,0.4\n"
	hs, err := parseCSVTable(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(hs) != 2 {
		t.Fatalf("expected 2 holdings, got %d", len(hs))
	}
	// Fractional weight column: no percent shift.
	if hs[0].Weight.String() != "0.6" {
		t.Fatalf("weight: %s", hs[0].Weight)
	}
}

func TestParseCSVTable_NoHeader(t *testing.T) {
	if _, err := parseCSVTable(strings.NewReader("a,b\n1,2\n")); err == nil {
		t.Fatal("expected error for payload without a holdings header")
	}
}

func TestParseWeight(t *testing.T) {
	cases := []struct {
		raw     string
		percent bool
		want    string
	}{
		{"60.00", true, "0.6"},
		{"3.25", true, "0.0325"},
		{"0.6", false, "0.6"},
		{"12.5%", false, "0.125"},
		{"1,250.00", true, "12.5"},
	}
	for _, c := range cases {
		got, err := parseWeight(c.raw, c.percent)
		if err != nil {
			t.Fatalf("parseWeight(%q): %v", c.raw, err)
		}
		if got.String() != c.want {
			t.Fatalf("parseWeight(%q) = %s, want %s", c.raw, got, c.want)
		}
	}

	for _, bad := range []string{"", "-", "n/a"} {
		if _, err := parseWeight(bad, true); err == nil {
			t.Fatalf("parseWeight(%q): expected error", bad)
		}
	}
}

func TestResolveColumns(t *testing.T) {
	tIdx, wIdx, pct, ok := resolveColumns([]string{"Ticker", "Name", "Weight (%)"})
	if !ok || tIdx != 0 || wIdx != 2 || !pct {
		t.Fatalf("got tIdx=%d wIdx=%d pct=%v ok=%v", tIdx, wIdx, pct, ok)
	}

	tIdx, wIdx, pct, ok = resolveColumns([]string{"Symbol", "Weight"})
	if !ok || tIdx != 0 || wIdx != 1 || pct {
		t.Fatalf("got tIdx=%d wIdx=%d pct=%v ok=%v", tIdx, wIdx, pct, ok)
	}

	if _, _, _, ok := resolveColumns([]string{"Name", "Price"}); ok {
		t.Fatal("expected no resolution without ticker and weight columns")
	}
}
