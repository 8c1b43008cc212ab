package services

import (
	"math"
	"testing"
)

func TestFormatAmount_Values(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"zero is blank", 0, ""},
		{"NaN is blank", math.NaN(), ""},
		{"infinity is blank", math.Inf(1), ""},
		{"small integer", 5, "5"},
		{"one decimal", 1234.5, "1,234.5"},
		{"two decimals", 1234.56, "1,234.56"},
		{"rounds to two places", 1234.567, "1,234.57"},
		{"trailing zeros trimmed", 42.10, "42.1"},
		{"million", 1000000, "1,000,000"},
		{"fraction only", 0.1, "0.1"},
		{"rounds to zero", 0.001, ""},
		{"negative", -2500.5, "-2,500.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatAmount(tt.input)
			if got != tt.expect {
				t.Errorf("FormatAmount(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestParseAmount_Values(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect float64
	}{
		{"empty", "", 0},
		{"whitespace", "   ", 0},
		{"plain integer", "42", 42},
		{"grouped", "1,234.5", 1234.5},
		{"grouped million", "1,000,000", 1000000},
		{"padded", "  12.75 ", 12.75},
		{"garbage", "abc", 0},
		{"partial garbage", "12abc", 0},
		{"NaN text", "NaN", 0},
		{"infinity text", "Inf", 0},
		{"negative", "-15", -15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.input)
			if got != tt.expect {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.input, got, tt.expect)
			}
		})
	}
}

func TestParseAmountE_RejectsBlankAndGarbage(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"1,000", 1000, false},
		{" 12.5 ", 12.5, false},
		{"", 0, true},
		{"  ", 0, true},
		{"ten", 0, true},
		{"Inf", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAmountE(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAmountE(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAmountE(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFormatParse_RoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1, 1234.5, 1000000, 0.1, 99.99, 250000.05} {
		got := ParseAmount(FormatAmount(v))
		if got != v {
			t.Errorf("ParseAmount(FormatAmount(%v)) = %v", v, got)
		}
	}
}
