package format

import (
	"fmt"
	"strings"
)

// Digits strips every non-digit character.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePlate uppercases a plate and strips everything that is not a letter
// or a digit, matching what the API expects ("ABC-1234" becomes "ABC1234").
func NormalizePlate(plate string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(plate) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCPFLength reports whether the value holds exactly 11 digits after
// stripping the mask.
func ValidCPFLength(cpf string) bool {
	return len(Digits(cpf)) == 11
}

// MaskCPF renders the display mask 000.000.000-00 over however many digits are
// present, truncating past 11.
func MaskCPF(cpf string) string {
	d := Digits(cpf)
	if len(d) > 11 {
		d = d[:11]
	}
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 6:
		return d[:3] + "." + d[3:]
	case len(d) <= 9:
		return d[:3] + "." + d[3:6] + "." + d[6:]
	default:
		return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
	}
}

// MaskPhone renders (00) 0000-0000 or (00) 00000-0000 depending on how many
// digits are present, truncating past 11.
func MaskPhone(phone string) string {
	d := Digits(phone)
	if len(d) > 11 {
		d = d[:11]
	}
	switch {
	case len(d) <= 2:
		return d
	case len(d) <= 6:
		return "(" + d[:2] + ") " + d[2:]
	case len(d) <= 10:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	default:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	}
}

// FormatBRL renders an amount the way the dashboard shows money: "R$ 12,50".
func FormatBRL(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	return "R$ " + strings.ReplaceAll(s, ".", ",")
}
