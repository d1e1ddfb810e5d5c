package format

import "testing"

func TestDigits(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "masked cpf", in: "123.456.789-09", want: "12345678909"},
		{name: "masked phone", in: "(89) 99123-4567", want: "89991234567"},
		{name: "letters only", in: "abc", want: ""},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Digits(tt.in); got != tt.want {
				t.Errorf("Digits(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "dashed", in: "abc-1234", want: "ABC1234"},
		{name: "mercosul", in: "bra2e19", want: "BRA2E19"},
		{name: "spaces and symbols", in: " zzz 9999 ", want: "ZZZ9999"},
		{name: "already clean", in: "DEF5678", want: "DEF5678"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePlate(tt.in); got != tt.want {
				t.Errorf("NormalizePlate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidCPFLength(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "masked full", in: "123.456.789-09", want: true},
		{name: "bare full", in: "12345678909", want: true},
		{name: "short", in: "123.456.789", want: false},
		{name: "long", in: "123456789091", want: false},
		{name: "empty", in: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidCPFLength(tt.in); got != tt.want {
				t.Errorf("ValidCPFLength(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMaskCPF(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "12345678909", want: "123.456.789-09"},
		{in: "123456", want: "123.456"},
		{in: "1234567", want: "123.456.7"},
		{in: "123", want: "123"},
		{in: "123456789091111", want: "123.456.789-09"},
	}
	for _, tt := range tests {
		if got := MaskCPF(tt.in); got != tt.want {
			t.Errorf("MaskCPF(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "89991234567", want: "(89) 99123-4567"},
		{in: "8933214567", want: "(89) 3321-4567"},
		{in: "89", want: "89"},
		{in: "893321", want: "(89) 3321"},
	}
	for _, tt := range tests {
		if got := MaskPhone(tt.in); got != tt.want {
			t.Errorf("MaskPhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 12.5, want: "R$ 12,50"},
		{in: 0, want: "R$ 0,00"},
		{in: 100, want: "R$ 100,00"},
	}
	for _, tt := range tests {
		if got := FormatBRL(tt.in); got != tt.want {
			t.Errorf("FormatBRL(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
