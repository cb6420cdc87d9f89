package query

import "TrustTrace/internal/domain/models"

// keywordPhrase is the generic search phrase per debt-type category.
var keywordPhrase = map[models.DebtType]string{
	models.DebtMortgage:     "mortgage loan trust",
	models.DebtAuto:         "auto receivables trust",
	models.DebtCreditCard:   "credit card master note trust",
	models.DebtStudentLoan:  "student loan trust",
	models.DebtPersonalLoan: "consumer loan trust",
}

// knownIssuers lists the well-known securitization sponsors per category.
// Order matters: queries are emitted in this order.
var knownIssuers = map[models.DebtType][]string{
	models.DebtMortgage: {
		"JPMorgan Chase",
		"Wells Fargo",
		"Bank of America",
		"Citigroup",
		"Goldman Sachs",
	},
	models.DebtAuto: {
		"Santander Consumer USA",
		"Ally Financial",
		"GM Financial",
		"Toyota Motor Credit",
		"CarMax",
		"Westlake Financial",
	},
	models.DebtCreditCard: {
		"Chase",
		"Citibank",
		"Capital One",
		"Discover",
		"American Express",
	},
	models.DebtStudentLoan: {
		"Navient",
		"Sallie Mae",
		"Nelnet",
		"SoFi",
	},
	models.DebtPersonalLoan: {
		"OneMain",
		"LendingClub",
		"Marlette",
		"Avant",
		"Upstart",
	},
}

// KeywordPhrase returns the generic keyword phrase for a debt type, "" if unknown.
func KeywordPhrase(t models.DebtType) string { return keywordPhrase[t] }

// KnownIssuers returns the well-known issuer list for a debt type.
func KnownIssuers(t models.DebtType) []string { return knownIssuers[t] }
