package services

// defaultBudgetCategory is assigned when a transaction's Plaid category has
// no mapping.
const defaultBudgetCategory = "Miscellaneous"

// plaidCategoryToBudgetBucket maps a Plaid primary category to the budget
// bucket it is reported under. Unmapped categories fall through to
// defaultBudgetCategory rather than being dropped.
var plaidCategoryToBudgetBucket = map[string]string{
	"Food and Drink":      "Food & Drink",
	"Restaurants":         "Food & Drink",
	"Groceries":           "Groceries",
	"Shops":               "Shopping",
	"Merchandise":         "Shopping",
	"Travel":              "Travel",
	"Taxi":                "Transportation",
	"Transportation":      "Transportation",
	"Gas Stations":        "Transportation",
	"Recreation":          "Entertainment",
	"Entertainment":       "Entertainment",
	"Healthcare":          "Health",
	"Medical":             "Health",
	"Service":             "Services",
	"Subscription":        "Subscriptions",
	"Utilities":           "Bills & Utilities",
	"Rent":                "Housing",
	"Mortgage":            "Housing",
	"Home Improvement":    "Housing",
	"Transfer":            "Transfers",
	"Payment":             "Bills & Utilities",
	"Bank Fees":           "Fees",
	"Interest":            "Income",
	"Interest Earned":     "Income",
	"Deposit":             "Income",
	"Payroll":             "Income",
	"Community":           "Miscellaneous",
	"Personal Care":       "Personal Care",
	"Education":           "Education",
	"Insurance":           "Insurance",
	"Tax":                 "Taxes",
	"Cash Advance":        "Cash",
	"Loan Payments":       "Payments",
	"General Merchandise": "Shopping",
}

// budgetCategoryFor resolves a transaction's budget bucket from its Plaid
// category hierarchy. The primary (first) category wins.
func budgetCategoryFor(categories []string) string {
	if len(categories) == 0 {
		return defaultBudgetCategory
	}
	if bucket, ok := plaidCategoryToBudgetBucket[categories[0]]; ok {
		return bucket
	}
	return defaultBudgetCategory
}
