package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reTxnID      = regexp.MustCompile(`[^0-9A-Za-z]+`)
	reRoomNumber = regexp.MustCompile(`[^0-9A-Za-z\- ]+`)
)

func trim(s string) string {
	return strings.TrimSpace(s)
}

// SanitizeTransactionID keeps the alphanumeric core of a UPI reference.
// The value is stored verbatim after cleanup; it is never verified against a
// payment network.
func SanitizeTransactionID(input string) string {
	p := Pipeline{
		trim,
		func(s string) string { return reTxnID.ReplaceAllString(s, "") },
		strings.ToUpper,
	}
	return p.Apply(input)
}

// SanitizeRoomNumber strips anything that is not a letter, digit, dash or space.
func SanitizeRoomNumber(input string) string {
	p := Pipeline{
		trim,
		func(s string) string { return reRoomNumber.ReplaceAllString(s, "") },
		TrimAndNormalize,
	}
	return p.Apply(input)
}

// SanitizeUPIID lowercases and trims a handle like name@bank.
func SanitizeUPIID(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// SanitizeDetails normalizes whitespace on every value of a details map.
func SanitizeDetails(details map[string]string) map[string]string {
	normalized := make(map[string]string, len(details))
	for key, value := range details {
		normalized[strings.TrimSpace(key)] = TrimAndNormalize(value)
	}
	return normalized
}
