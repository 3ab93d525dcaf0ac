package market

import "testing"

func TestEligible(t *testing.T) {
	r := NewRules(".NS")
	cases := []struct {
		symbol string
		want   bool
	}{
		{"RELIANCE.NS", true},
		{"reliance.ns", true},
		{"  TCS.NS ", true},
		{"AAPL", false},
		{"AAPL.US", false},
		{".NS", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := r.Eligible(tc.symbol); got != tc.want {
			t.Fatalf("Eligible(%q)=%v want=%v", tc.symbol, got, tc.want)
		}
	}
}

func TestNewRulesDefaultsSuffix(t *testing.T) {
	r := NewRules("")
	if r.Suffix() != DefaultSuffix {
		t.Fatalf("suffix=%q want=%q", r.Suffix(), DefaultSuffix)
	}
	if !r.Eligible("INFY.NS") {
		t.Fatalf("INFY.NS should be eligible under default rules")
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(" infy.ns "); got != "INFY.NS" {
		t.Fatalf("Normalize=%q", got)
	}
}
