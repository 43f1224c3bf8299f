package classifier_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcaldwell/statementimporter/pkg/banks/idfc"
	"github.com/bcaldwell/statementimporter/pkg/classifier"
	"github.com/bcaldwell/statementimporter/pkg/statement"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

func classify(description string) classifier.Result {
	c := classifier.New(idfc.Rules(), ist)
	return c.Classify(statement.RawRow{TransactionDate: "2024-01-01T18:30:00.000Z", Description: description})
}

func strPtr(s string) *string {
	return &s
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		description string
		mode        statement.Mode
		ref         *string
		category    statement.Category
		tags        []string
		meta        map[string]*string
	}{
		{
			name:        "food keyword",
			description: "UPI/MOB/400230892772/lunch",
			mode:        statement.ModeUPI,
			ref:         strPtr("400230892772"),
			category:    statement.CategoryFood,
			tags:        []string{"lunch"},
		},
		{
			name:        "food prefix takes free text as tag",
			description: "UPI/MOB/400230892772/food biryani",
			mode:        statement.ModeUPI,
			ref:         strPtr("400230892772"),
			category:    statement.CategoryFood,
			tags:        []string{"biryani"},
		},
		{
			name:        "deposit is case sensitive",
			description: "UPI/MOB/400230892772/SBI RD",
			mode:        statement.ModeUPI,
			ref:         strPtr("400230892772"),
			category:    statement.CategoryDeposit,
			tags:        []string{"SBI"},
		},
		{
			name:        "curd is food",
			description: "UPI/MOB/400230892772/curd",
			mode:        statement.ModeUPI,
			ref:         strPtr("400230892772"),
			category:    statement.CategoryFood,
			tags:        []string{"curd"},
		},
		{
			name:        "coffee is food",
			description: "UPI/MOB/400230892772/coffee",
			mode:        statement.ModeUPI,
			ref:         strPtr("400230892772"),
			category:    statement.CategoryFood,
			tags:        []string{"coffe"},
		},
		{
			name:        "coconut is food",
			description: "UPI/MOB/400230892772/coconut",
			mode:        statement.ModeUPI,
			ref:         strPtr("400230892772"),
			category:    statement.CategoryFood,
			tags:        []string{"coconut"},
		},
		{
			name:        "mutton is food",
			description: "UPI/MOB/400230892772/mutton",
			mode:        statement.ModeUPI,
			ref:         strPtr("400230892772"),
			category:    statement.CategoryFood,
			tags:        []string{"mutton"},
		},
		{
			name:        "plain deposit",
			description: "UPI/MOB/400230892772/deposit",
			mode:        statement.ModeUPI,
			ref:         strPtr("400230892772"),
			category:    statement.CategoryDeposit,
			tags:        []string{"deposit"},
		},
		{
			name:        "mother deposit",
			description: "UPI/MOB/400230892772/mother deposit",
			mode:        statement.ModeUPI,
			ref:         strPtr("400230892772"),
			category:    statement.CategoryDeposit,
			tags:        []string{"deposit"},
		},
		{
			name:        "monthly deposit",
			description: "UPI/MOB/400230892772/monthly deposit",
			mode:        statement.ModeUPI,
			ref:         strPtr("400230892772"),
			category:    statement.CategoryDeposit,
			tags:        []string{"deposit"},
		},
		{
			name:        "bare recurring deposit",
			description: "UPI/MOB/400230892772/RD",
			mode:        statement.ModeUPI,
			ref:         strPtr("400230892772"),
			category:    statement.CategoryDeposit,
			tags:        []string{"RD"},
		},
		{
			name:        "first matching rule wins",
			description: "UPI/MOB/400230892772/egg transfer",
			mode:        statement.ModeUPI,
			ref:         strPtr("400230892772"),
			category:    statement.CategoryFood,
			tags:        []string{"egg"},
		},
		{
			name:        "no rule matches",
			description: "UPI/MOB/400230892772/qwerty",
			mode:        statement.ModeUPI,
			ref:         strPtr("400230892772"),
			category:    statement.CategoryUnknown,
			tags:        []string{"qwerty"},
		},
		{
			name:        "reversed upi",
			description: "UPI-REV/MOB/400230892772/zomato",
			mode:        statement.ModeUPI,
			ref:         strPtr("400230892772"),
			category:    statement.CategoryFood,
			tags:        []string{"zomato"},
		},
		{
			name:        "atm withdrawal",
			description: "ATM-NFS/CASH WITHDRAWAL/R K FILLI/418212018475/SEL",
			mode:        statement.ModeATM,
			ref:         strPtr("418212018475"),
			category:    statement.CategoryATMCash,
			tags:        []string{"CASH WITHDRAWAL"},
			meta:        map[string]*string{"location": strPtr("R K FILLI")},
		},
		{
			name:        "neft transfer",
			description: "NEFT/CMS1234567890123/ACME CORP",
			mode:        statement.ModeNEFT,
			ref:         strPtr("CMS1234567890123"),
			category:    statement.CategoryBankTransfer,
			tags:        []string{"ACME CORP"},
		},
		{
			name:        "neft salary",
			description: "NEFT/N123240012345678/RZPX PRIVATE LIMITED/SALARY",
			mode:        statement.ModeNEFT,
			ref:         strPtr("N123240012345678"),
			category:    statement.CategorySalary,
			tags:        []string{"RZPX PRIVATE"},
		},
		{
			name:        "imps transfer",
			description: "IMPS-MOB/400512345678/JOHN DOE/HDFC/rent",
			mode:        statement.ModeIMPS,
			ref:         strPtr("400512345678"),
			category:    statement.CategoryBankTransfer,
			tags:        []string{"rent"},
			meta:        map[string]*string{"recipient": strPtr("JOHN DOE")},
		},
		{
			name:        "nach mandate",
			description: "NACH/INDIAN CLEARING CORP/HDFC0000001/SIP",
			mode:        statement.ModeNACH,
			category:    statement.CategoryBankMandate,
			tags:        []string{"INDIAN CLEARING CORP"},
		},
		{
			name:        "annotated upi",
			description: "UPI/MOB/400230892772/i food p raj l hsr",
			mode:        statement.ModeUPI,
			ref:         strPtr("400230892772"),
			category:    statement.CategoryFood,
			tags:        []string{"raj", "hsr"},
			meta:        map[string]*string{"party": strPtr("raj"), "location": strPtr("hsr")},
		},
		{
			name:        "annotated upi with event",
			description: "UPI/MOB/400230892772/I Shopping e goa trip",
			mode:        statement.ModeUPI,
			ref:         strPtr("400230892772"),
			category:    statement.CategoryShopping,
			tags:        []string{"goa trip"},
			meta:        map[string]*string{"event": strPtr("goa trip")},
		},
		{
			name:        "monthly interest",
			description: "MONTHLY SAVINGS INTEREST CREDIT",
			mode:        statement.ModeMonthlyInterest,
			ref:         strPtr("monthly_interest_02_01_2024"),
			category:    statement.CategoryBankTransfer,
			tags:        []string{"MONTHLY SAVINGS INTEREST"},
		},
		{
			name:        "emi with reference",
			description: "EMI DEBIT 123456789",
			mode:        statement.ModeEMI,
			ref:         strPtr("123456789"),
			category:    statement.CategoryEMI,
			tags:        []string{"EMI DEBIT"},
		},
		{
			name:        "unrecognized single part defaults to emi",
			description: "SERVICE CHARGES",
			mode:        statement.ModeEMI,
			category:    statement.CategoryEMI,
			tags:        []string{"EMI DEBIT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classify(tt.description)

			assert.Equal(t, tt.mode, result.Mode)
			assert.Equal(t, tt.ref, result.Ref)
			assert.Equal(t, tt.category, result.Category)
			assert.Equal(t, tt.tags, result.Tags)

			meta := tt.meta
			if meta == nil {
				meta = map[string]*string{}
			}
			assert.Equal(t, meta, result.AdditionalMeta)
		})
	}
}

func TestClassifyAlwaysHasCategory(t *testing.T) {
	descriptions := []string{
		"UPI/MOB/400230892772/",
		"/",
		"NEFT/nothing",
		"IMPS-INET/x",
		"NACH/somebody",
		"ATM-NFS/x/y/z",
		"CHQ/000123/",
	}

	for _, d := range descriptions {
		result := classify(d)
		assert.NotEmpty(t, result.Category, d)
	}
}

func TestSinglePartBoundary(t *testing.T) {
	result := classify("UPI/400230892772")
	assert.Equal(t, statement.ModeUPI, result.Mode)
	assert.Equal(t, strPtr("400230892772"), result.Ref)

	result = classify("UPI 400230892772")
	assert.Equal(t, statement.ModeEMI, result.Mode)
}

func TestRefMustMatchWholePart(t *testing.T) {
	result := classify("UPI/MOB/4002308927721/lunch")
	assert.Nil(t, result.Ref)

	result = classify("UPI/MOB/abc230892772/lunch")
	assert.Nil(t, result.Ref)

	result = classify("UPI/MOB/UPI400230892772X/lunch")
	assert.Nil(t, result.Ref)
}

func TestUnknownModeHasNoRef(t *testing.T) {
	result := classify("/400230892772/lunch")
	assert.Equal(t, statement.ModeUnknown, result.Mode)
	assert.Nil(t, result.Ref)
	assert.Equal(t, statement.CategoryFood, result.Category)
}

func TestInterestWithBadDateHasNoRef(t *testing.T) {
	c := classifier.New(idfc.Rules(), ist)
	result := c.Classify(statement.RawRow{TransactionDate: "yesterday", Description: statement.MonthlyInterestSentinel})
	assert.Equal(t, statement.ModeMonthlyInterest, result.Mode)
	assert.Nil(t, result.Ref)
}

func TestStagesReturnUpdatedContext(t *testing.T) {
	c := classifier.New(idfc.Rules(), ist)

	ctx := classifier.NewContext(statement.RawRow{Description: "UPI/MOB/400230892772/lunch"})
	withMode := c.ClassifyMode(ctx)
	withRef := c.ClassifyRef(withMode)
	categorized := c.Categorize(withRef)

	assert.Equal(t, statement.ModeUnknown, ctx.Mode)
	assert.Equal(t, statement.ModeUPI, withMode.Mode)
	assert.Nil(t, withMode.Ref)
	require.NotNil(t, withRef.Ref)
	assert.Equal(t, "400230892772", *withRef.Ref)
	assert.Empty(t, withRef.Categories)
	assert.Equal(t, statement.CategoryFood, categorized.Category())
}

func TestCategorizePresetContext(t *testing.T) {
	c := classifier.New(idfc.Rules(), ist)

	cases := map[string]statement.Category{
		"milk":             statement.CategoryFood,
		"bike service":     statement.CategoryBike,
		"house rent":       statement.CategoryDomestic,
		"Zerodha":          statement.CategoryDeposit,
		"amazon":           statement.CategoryShopping,
		"petrol":           statement.CategoryPetrol,
		"vegetable":        statement.CategoryGrocery,
		"rapido":           statement.CategoryTransport,
		"medicine":         statement.CategoryMedical,
		"film":             statement.CategoryEntertainment,
		"PhonePe":          statement.CategoryOnlinePayment,
		"autopay":          statement.CategoryBankMandate,
		"decathlon":        statement.CategoryPersonal,
		"refund":           statement.CategoryCashTransfer,
		"grocery tomatoes": statement.CategoryGrocery,
	}

	for note, category := range cases {
		ctx := classifier.NewContext(statement.RawRow{Description: "UPI/MOB/400230892772/" + note})
		ctx.Mode = statement.ModeUPI
		ctx.Ref = strPtr("400230892772")

		got := c.Categorize(ctx)
		assert.Equal(t, category, got.Category(), note)
		assert.NotEmpty(t, got.Tags, note)
	}
}

func TestTrailingSlashHasNoTag(t *testing.T) {
	result := classify("UPI/MOB/400230892772/")
	assert.Equal(t, statement.ModeUPI, result.Mode)
	assert.Equal(t, statement.CategoryUnknown, result.Category)
	assert.Empty(t, result.Tags)
}

func TestStagesDoNotShareState(t *testing.T) {
	c := classifier.New(idfc.Rules(), ist)

	ctx := classifier.NewContext(statement.RawRow{Description: "ATM-NFS/CASH WITHDRAWAL/R K FILLI/418212018475/SEL"})
	ctx.Mode = statement.ModeATM
	ctx.Ref = strPtr("418212018475")
	ctx.Tags = make([]string, 0, 4)
	ctx.Categories = make([]statement.Category, 0, 4)

	got := c.Categorize(ctx)

	assert.Equal(t, []string{"CASH WITHDRAWAL"}, got.Tags)
	assert.Equal(t, strPtr("R K FILLI"), got.Meta["location"])

	assert.Empty(t, ctx.Meta)
	assert.Empty(t, ctx.Tags)
	assert.Empty(t, ctx.Categories)
	assert.Empty(t, ctx.Tags[:cap(ctx.Tags)][0])
}
