// Package idfc knows the layout and description conventions of IDFC FIRST Bank
// account statement exports.
package idfc

import (
	"regexp"
	"strings"

	"github.com/bcaldwell/statementimporter/pkg/classifier"
	"github.com/bcaldwell/statementimporter/pkg/statement"
)

const Name = "IDFC"

const sheetName = "Account Statement"

var headers = map[string]string{
	"Transaction Date": statement.FieldTransactionDate,
	"Value Date":       statement.FieldValueDate,
	"Particulars":      statement.FieldDescription,
	"Cheque No.":       statement.FieldCheque,
	"Debit":            statement.FieldDebit,
	"Credit":           statement.FieldCredit,
	"Balance":          statement.FieldBalance,
}

// Layout is the IDFC statement export layout.
type Layout struct{}

func (Layout) SheetName() string {
	return sheetName
}

func (Layout) IsTableHeader(cells []string) bool {
	return len(cells) > 0 && strings.HasPrefix(strings.TrimSpace(cells[0]), "Transaction")
}

func (Layout) TransformHeader(header string) string {
	if field, ok := headers[header]; ok {
		return field
	}
	return header
}

var modeTable = map[string]statement.Mode{
	statement.MonthlyInterestSentinel: statement.ModeMonthlyInterest,
	"UPI-REV":                         statement.ModeUPI,
	"IMPS-INET":                       statement.ModeIMPS,
	"IMPS-MOB":                        statement.ModeIMPS,
	"IMPS-OPM":                        statement.ModeIMPS,
	"IMPS-RIB":                        statement.ModeIMPS,
	"ATM-NFS":                         statement.ModeATM,
}

// Rules returns the classification rules for IDFC descriptions. Category
// rules are tested in the order listed.
func Rules() classifier.RuleSet {
	return classifier.RuleSet{
		ModeTable:        modeTable,
		InterestSentinel: statement.MonthlyInterestSentinel,
		EMIPattern:       regexp.MustCompile(`^EMI\sDEBIT\s(\d{9})$`),
		RefTokens: map[statement.Mode]*regexp.Regexp{
			statement.ModeNEFT: regexp.MustCompile(`^[0-9A-Z]{16}$`),
		},
		DefaultRefToken: regexp.MustCompile(`^[0-9A-Z]{12}$`),

		Salary:  regexp.MustCompile(`(?i)rzpx\sprivate`),
		Mandate: regexp.MustCompile(`(?i)indian\sclearing\scorp`),

		ATM:  classifier.RefTemplate(`(?i)^atm[\w-]+/[\w\s-]+/(?P<location>[\w\s-]+)/%s/.*$`),
		NEFT: classifier.RefTemplate(`NEFT/%s/(?P<tag>[\w\s-]+)`),
		IMPS: classifier.RefTemplate(`(?i)%s/(?P<recipient>[\w\s-]+)/.*/(?P<tag>[\w\s-]+)$`),

		Annotation: regexp.MustCompile(`(?i)^i\s`),

		Categories: []classifier.Rule{
			classifier.NewPrefixRule(statement.CategoryFood, `(?i)^food\s\w+`,
				`(?i)food|fod|fpod|foos|dood|fruit|coffe|lunch|dinner|juice|sweets|curd|chicken|mutton|milk|egg|coke|coconut|choco[a-z]+|iron\shill|swiggy|zomato`),
			classifier.NewPrefixRule(statement.CategoryBike, `(?i)^bike\s\w+`,
				`(?i)bike|motorcycle|suzuki|parking|balaklava`),
			classifier.NewPrefixRule(statement.CategoryDomestic, `(?i)^house\s\w+`,
				`(?i)house|rent|water|warer|service|fiber|cutlery|DTH|airtel|jio|recharge|station[ae]ry|filter|puja|murthy`),
			classifier.NewKeywordRule(statement.CategoryDeposit,
				`RD|SBI|[Dd]eposit|Zerodha|SIP|LIC|Lic|lic`),
			classifier.NewKeywordRule(statement.CategoryShopping,
				`(?i)amazon|flipkart|online|order`),
			classifier.NewKeywordRule(statement.CategoryPetrol,
				`(?i)petrol|fuel|pretol`),
			classifier.NewPrefixRule(statement.CategoryGrocery, `(?i)^grocery\s\w+`,
				`(?i)grocery|vegetable|bag|polythene`),
			classifier.NewKeywordRule(statement.CategoryTransport,
				`(?i)transport|taxi|bus|fare|cab|uber|rapido|cleartrip`),
			classifier.NewPrefixRule(statement.CategoryMedical, `(?i)^medical\s\w+`,
				`(?i)medicine|medical|health|check up`),
			classifier.NewKeywordRule(statement.CategoryEntertainment,
				`(?i)film|haikyuu`),
			classifier.NewKeywordRule(statement.CategoryOnlinePayment,
				`merchant|UPIIntent|PhonePe|Razorpay|BharatPe|FEDERAL\sEASYPAYMENTS|[Oo]nline|[Pp]ayment|[Tt]ransaction|UPI|[Cc]collect|request|[Pp]ay\s[Tt]o|DYNAMICQR|YESB`),
			classifier.NewKeywordRule(statement.CategoryBankMandate,
				`(?i)autopay|mandate`),
			classifier.NewPrefixRule(statement.CategoryPersonal, `(?i)^(?:personal|shopping)\s\w+`,
				`(?i)clothes|decathlon|slipper|clothing|shopping|allowance|stuff`),
			classifier.NewPrefixRule(statement.CategoryCashTransfer, `(?i)^transfer\s\w+`,
				`(?i)atm\scash|cash|transfer|refund|lend`),
		},
	}
}
