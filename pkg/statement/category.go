package statement

// Category is the single spend or income bucket a transaction is filed under.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryBike          Category = "bike"
	CategoryDomestic      Category = "domestic"
	CategoryDeposit       Category = "deposit"
	CategoryShopping      Category = "shopping"
	CategoryPetrol        Category = "petrol"
	CategoryGrocery       Category = "grocery"
	CategoryTransport     Category = "transport"
	CategoryMedical       Category = "medical"
	CategoryEntertainment Category = "entertainment"
	CategoryOnlinePayment Category = "online_payment"
	CategoryBankMandate   Category = "bank_mandate"
	CategoryPersonal      Category = "personal"
	CategoryCashTransfer  Category = "cash_transfer"
	CategoryEMI           Category = "emi"
	CategoryATMCash       Category = "atm_cash"
	CategorySalary        Category = "salary"
	CategoryBankTransfer  Category = "bank_transfer"
	CategoryUnknown       Category = "unknown"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryBike,
	CategoryDomestic,
	CategoryDeposit,
	CategoryShopping,
	CategoryPetrol,
	CategoryGrocery,
	CategoryTransport,
	CategoryMedical,
	CategoryEntertainment,
	CategoryOnlinePayment,
	CategoryBankMandate,
	CategoryPersonal,
	CategoryCashTransfer,
	CategoryEMI,
	CategoryATMCash,
	CategorySalary,
	CategoryBankTransfer,
	CategoryUnknown,
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory matches s against the known categories, ignoring case and
// surrounding whitespace. ok is false when s names no category.
func ParseCategory(s string) (Category, bool) {
	s = NormalizeToken(s)
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}

	return CategoryUnknown, false
}
