package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeMode(t *testing.T) {
	cases := map[string]Mode{
		"UPI":                             ModeUPI,
		"UPI-REV":                         ModeUPI,
		"NEFT":                            ModeNEFT,
		"NACH":                            ModeNACH,
		"EMI":                             ModeEMI,
		"IMPS-INET":                       ModeIMPS,
		"IMPS-MOB":                        ModeIMPS,
		"IMPS-OPM":                        ModeIMPS,
		"IMPS-RIB":                        ModeIMPS,
		"ATM-NFS":                         ModeATM,
		"MONTHLY SAVINGS INTEREST CREDIT": ModeMonthlyInterest,
		"":                                ModeUnknown,
		"  ":                              ModeUnknown,
		"BIL-ONL":                         Mode("bil_onl"),
	}

	for token, expected := range cases {
		assert.Equal(t, expected, DecodeMode(token), "token %q", token)
	}
}

func TestModeRoundTrip(t *testing.T) {
	for _, token := range []string{"UPI", "UPI-REV", "NEFT", "NACH", "EMI", "IMPS-MOB", "IMPS-RIB", "ATM-NFS", "MONTHLY SAVINGS INTEREST CREDIT", "BIL-ONL", ""} {
		mode := DecodeMode(token)
		assert.Equal(t, mode, DecodeMode(mode.Encode()), "token %q", token)
	}
}

func TestModeEncode(t *testing.T) {
	assert.Equal(t, "UPI", ModeUPI.Encode())
	assert.Equal(t, "IMPS-INET", ModeIMPS.Encode())
	assert.Equal(t, "ATM-NFS", ModeATM.Encode())
	assert.Equal(t, "", ModeUnknown.Encode())
	assert.Equal(t, MonthlyInterestSentinel, ModeMonthlyInterest.Encode())
	assert.Equal(t, "NEFT", ModeNEFT.Encode())
	assert.Equal(t, "BIL-ONL", Mode("bil_onl").Encode())
}

func TestNormalizeToken(t *testing.T) {
	assert.Equal(t, "imps_mob", NormalizeToken("IMPS-MOB"))
	assert.Equal(t, "monthly_savings_interest_credit", NormalizeToken("MONTHLY SAVINGS INTEREST CREDIT"))
	assert.Equal(t, "imps_mob", NormalizeToken("ImpsMob"))
	assert.Equal(t, "bank_transfer", NormalizeToken("bank_transfer"))
	assert.Equal(t, "", NormalizeToken("--"))
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" Food ")
	assert.True(t, ok)
	assert.Equal(t, CategoryFood, c)

	c, ok = ParseCategory("online payment")
	assert.True(t, ok)
	assert.Equal(t, CategoryOnlinePayment, c)

	c, ok = ParseCategory("biryani")
	assert.False(t, ok)
	assert.Equal(t, CategoryUnknown, c)
}
