package statement

import (
	"strings"
	"unicode"
)

// Mode is the payment channel a statement line went through.
// The set is open, banks may produce any normalized token.
type Mode string

const (
	ModeUnknown         Mode = "unknown"
	ModeUPI             Mode = "upi"
	ModeNEFT            Mode = "neft"
	ModeIMPS            Mode = "imps"
	ModeATM             Mode = "atm"
	ModeNACH            Mode = "nach"
	ModeEMI             Mode = "emi"
	ModeMonthlyInterest Mode = "monthly_interest"
)

// MonthlyInterestSentinel is the description banks use for the monthly savings interest credit.
const MonthlyInterestSentinel = "MONTHLY SAVINGS INTEREST CREDIT"

// vendorModes maps channel spellings found in exports to canonical modes.
var vendorModes = map[string]Mode{
	MonthlyInterestSentinel: ModeMonthlyInterest,
	"UPI-REV":               ModeUPI,
	"IMPS-INET":             ModeIMPS,
	"IMPS-MOB":              ModeIMPS,
	"IMPS-OPM":              ModeIMPS,
	"IMPS-RIB":              ModeIMPS,
	"ATM-NFS":               ModeATM,
}

func (m Mode) String() string {
	return string(m)
}

// Encode returns the vendor token the mode is written as in exports.
func (m Mode) Encode() string {
	switch m {
	case ModeMonthlyInterest:
		return MonthlyInterestSentinel
	case ModeUPI:
		return "UPI"
	case ModeUnknown:
		return ""
	case ModeIMPS:
		return "IMPS-INET"
	case ModeATM:
		return "ATM-NFS"
	default:
		return strings.ToUpper(strings.ReplaceAll(string(m), "_", "-"))
	}
}

// DecodeMode turns a vendor token into a mode, using the built in spellings
// first and falling back to the normalized token.
func DecodeMode(token string) Mode {
	return DecodeModeWith(vendorModes, token)
}

// DecodeModeWith is DecodeMode with a bank specific spelling table.
func DecodeModeWith(table map[string]Mode, token string) Mode {
	if m, ok := table[token]; ok {
		return m
	}

	normalized := NormalizeToken(token)
	if normalized == "" {
		return ModeUnknown
	}

	return Mode(normalized)
}

// NormalizeToken lower cases s and joins its words with underscores.
// Dashes, spaces and case changes ("ImpsMob") all count as word boundaries.
func NormalizeToken(s string) string {
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	runes := []rune(strings.TrimSpace(s))
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()

	return strings.Join(words, "_")
}
