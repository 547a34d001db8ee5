package categorize

// Rule maps a lowercase substring to a category. Rule tables are ordered and
// the first matching rule wins.
type Rule struct {
	Pattern  string `yaml:"pattern"`
	Category string `yaml:"category"`
}

// DefaultPayeeRules are matched against the transaction description before any
// keyword rule. They exist for merchants whose category differs from what a
// keyword match on the body would give.
var DefaultPayeeRules = []Rule{
	{"kamdhenu milk distributor", "Groceries"},
	{"spotify", "Subscription"},
	{"zomato", "Food"},
	{"swiggy", "Food"},
	{"amazon", "Shopping"},
	{"flipkart", "Shopping"},
	{"netflix", "Subscription"},
	{"irctc", "Travel"},
	{"ola", "Travel"},
	{"uber", "Travel"},
	{"vijayanand", "Travel"},
	{"recharge", "Bills"},
	{"inox", "Entertainment"},
	{"bescom", "Bills"},
	{"bwssb", "Bills"},
}

// DefaultKeywordRules are matched against the message body.
var DefaultKeywordRules = []Rule{
	{"atm", "Cash Withdrawal"},
	{"amazon", "Shopping"},
	{"flipkart", "Shopping"},
	{"zomato", "Food"},
	{"swiggy", "Food"},
	{"restaurant", "Food"},
	{"netflix", "Entertainment"},
	{"spotify", "Entertainment"},
	{"movie", "Entertainment"},
	{"inox", "Entertainment"},
	{"irctc", "Travel"},
	{"ola", "Travel"},
	{"uber", "Travel"},
	{"vijayanand", "Travel"},
	{"fuel", "Fuel"},
	{"petrol", "Fuel"},
	{"electricity", "Bills"},
	{"water bill", "Bills"},
	{"recharge", "Bills"},
	{"bill", "Bills"},
	{"upi", "Transfer"},
	{"pay", "Payment"},
	{"salary", "Income"},
	{"grocery", "Groceries"},
}

// Categories lists every label the default tables can produce, in first-seen
// order, followed by the fallback.
func Categories(tables ...[]Rule) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, table := range tables {
		for _, r := range table {
			if _, ok := seen[r.Category]; ok {
				continue
			}
			seen[r.Category] = struct{}{}
			out = append(out, r.Category)
		}
	}
	if _, ok := seen[Other]; !ok {
		out = append(out, Other)
	}
	return out
}
