package models

// CategoryOptions is the closed set of target company categories a workflow
// can be pointed at, in display order.
var CategoryOptions = []string{
	"Fortune 500",
	"SaaS Startups",
	"Enterprise",
	"SMB",
	"Healthcare",
	"Financial Services",
	"Technology",
	"Manufacturing",
	"Retail",
}

// ValidCategory reports whether category is a member of the closed set.
func ValidCategory(category string) bool {
	for _, option := range CategoryOptions {
		if option == category {
			return true
		}
	}

	return false
}
