package services

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidators(t *testing.T) {
	plates := map[string]bool{
		"51A12345":  true,
		"30B99999":  true,
		"51a12345":  false,
		"5A123456":  false,
		"51A1234":   false,
		"51AB1234":  false,
		"51A123456": false,
	}
	for p, want := range plates {
		if got := ValidPlate(p); got != want {
			t.Errorf("ValidPlate(%q) = %v", p, got)
		}
	}
	if NormalizePlate(" 51a12345 ") != "51A12345" {
		t.Error("NormalizePlate should trim and upper-case")
	}
	// Input is case-insensitive once normalized; malformed plates stay rejected.
	for in, want := range map[string]bool{"51a12345": true, " 30b99999 ": true, "51ab1234": false, "5a123456": false} {
		if got := ValidPlate(NormalizePlate(in)); got != want {
			t.Errorf("ValidPlate(NormalizePlate(%q)) = %v, want %v", in, got, want)
		}
	}

	phones := map[string]bool{"0912345678": true, "091234567": false, "09123456789": false, "09a2345678": false}
	for p, want := range phones {
		if got := ValidPhone(p); got != want {
			t.Errorf("ValidPhone(%q) = %v", p, got)
		}
	}

	usernames := map[string]bool{"lan": true, "Staff01": true, "a b": false, "an_ninh": false, "": false}
	for u, want := range usernames {
		if got := ValidUsername(u); got != want {
			t.Errorf("ValidUsername(%q) = %v", u, got)
		}
	}
}

func TestSplitModel(t *testing.T) {
	cases := []struct {
		in           string
		brand, model string
		ok           bool
	}{
		{"Toyota/Vios", "Toyota", "Vios", true},
		{" Honda / City ", "Honda", "City", true},
		{"Mercedes/C/200", "Mercedes", "C/200", true},
		{"Toyota", "", "", false},
		{"/Vios", "", "Vios", false},
	}
	for _, tc := range cases {
		b, m, ok := splitModel(tc.in)
		if ok != tc.ok || (ok && (b != tc.brand || m != tc.model)) {
			t.Errorf("splitModel(%q) = %q, %q, %v", tc.in, b, m, ok)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	cases := map[int64]string{0: "0", 950: "950", 1000: "1.000", 250000: "250.000", 1250000: "1.250.000", -5000: "-5.000"}
	for in, want := range cases {
		if got := formatMoney(decimal.NewFromInt(in)); got != want {
			t.Errorf("formatMoney(%d) = %q, want %q", in, got, want)
		}
	}
	if got := formatMoney(decimal.RequireFromString("1999.6")); got != "2.000" {
		t.Errorf("formatMoney(1999.6) = %q, want rounded 2.000", got)
	}
}
