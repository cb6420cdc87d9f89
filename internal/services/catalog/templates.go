package catalog

import "TrustTrace/internal/domain/models"

// trancheSpec describes one note class a template is known to issue.
type trancheSpec struct {
	Label       string
	Rating      string
	FaceBalance float64
}

// trustTemplate is one reference entry of the bundled trust catalog.
type trustTemplate struct {
	ID               string
	Name             string
	Trustee          string
	DebtType         models.DebtType
	ServicerPrefixes []string // known servicer names for this shelf
	Originators      []string
	VintageStart     int // first issuance year
	VintageEnd       int // last issuance year, inclusive
	States           []string // geographic footprint; empty = national
	IdentifierBase   string   // 6-char issuer base for synthesized codes
	Tranches         []trancheSpec
}

// templateCatalog is the bundled offline reference catalog, keyed by debt type.
var templateCatalog = map[models.DebtType][]trustTemplate{
	models.DebtAuto: {
		{
			ID:               "auto-santander-drive",
			Name:             "Santander Drive Auto Receivables Trust",
			Trustee:          "Citibank, N.A.",
			DebtType:         models.DebtAuto,
			ServicerPrefixes: []string{"Santander Consumer USA", "Santander"},
			Originators:      []string{"Santander Consumer USA", "Chrysler Capital"},
			VintageStart:     2013,
			VintageEnd:       2025,
			IdentifierBase:   "80285W",
			Tranches: []trancheSpec{
				{Label: "A-2", Rating: "AAA", FaceBalance: 310_000_000},
				{Label: "A-3", Rating: "AAA", FaceBalance: 295_000_000},
				{Label: "B", Rating: "AA", FaceBalance: 120_000_000},
				{Label: "C", Rating: "A", FaceBalance: 95_000_000},
				{Label: "D", Rating: "BBB", FaceBalance: 70_000_000},
			},
		},
		{
			ID:               "auto-ally-aart",
			Name:             "Ally Auto Receivables Trust",
			Trustee:          "U.S. Bank National Association",
			DebtType:         models.DebtAuto,
			ServicerPrefixes: []string{"Ally Financial", "Ally Bank", "Ally"},
			Originators:      []string{"Ally Bank"},
			VintageStart:     2010,
			VintageEnd:       2025,
			IdentifierBase:   "02007N",
			Tranches: []trancheSpec{
				{Label: "A-2", Rating: "AAA", FaceBalance: 280_000_000},
				{Label: "A-3", Rating: "AAA", FaceBalance: 260_000_000},
				{Label: "A-4", Rating: "AAA", FaceBalance: 110_000_000},
				{Label: "B", Rating: "AA+", FaceBalance: 45_000_000},
			},
		},
		{
			ID:               "auto-carmax",
			Name:             "CarMax Auto Owner Trust",
			Trustee:          "Deutsche Bank Trust Company Americas",
			DebtType:         models.DebtAuto,
			ServicerPrefixes: []string{"CarMax Business Services", "CarMax"},
			Originators:      []string{"CarMax Auto Finance"},
			VintageStart:     2012,
			VintageEnd:       2025,
			IdentifierBase:   "14316N",
			Tranches: []trancheSpec{
				{Label: "A-2a", Rating: "AAA", FaceBalance: 215_000_000},
				{Label: "A-3", Rating: "AAA", FaceBalance: 330_000_000},
				{Label: "B", Rating: "AA", FaceBalance: 38_000_000},
			},
		},
		{
			ID:               "auto-gmf-amcar",
			Name:             "AmeriCredit Automobile Receivables Trust",
			Trustee:          "Wells Fargo Bank, N.A.",
			DebtType:         models.DebtAuto,
			ServicerPrefixes: []string{"GM Financial", "AmeriCredit"},
			Originators:      []string{"AmeriCredit Financial Services"},
			VintageStart:     2011,
			VintageEnd:       2025,
			IdentifierBase:   "03066X",
			Tranches: []trancheSpec{
				{Label: "A-2", Rating: "AAA", FaceBalance: 240_000_000},
				{Label: "A-3", Rating: "AAA", FaceBalance: 265_000_000},
				{Label: "B", Rating: "AA", FaceBalance: 64_000_000},
				{Label: "C", Rating: "A", FaceBalance: 61_000_000},
			},
		},
		{
			ID:               "auto-westlake",
			Name:             "Westlake Automobile Receivables Trust",
			Trustee:          "Wells Fargo Bank, N.A.",
			DebtType:         models.DebtAuto,
			ServicerPrefixes: []string{"Westlake Services", "Westlake Financial", "Westlake"},
			Originators:      []string{"Westlake Services"},
			VintageStart:     2014,
			VintageEnd:       2025,
			States:           []string{"CA", "TX", "FL", "AZ", "NV"},
			IdentifierBase:   "96042V",
			Tranches: []trancheSpec{
				{Label: "A-2", Rating: "AAA", FaceBalance: 175_000_000},
				{Label: "B", Rating: "AA", FaceBalance: 72_000_000},
				{Label: "C", Rating: "A", FaceBalance: 68_000_000},
			},
		},
	},
	models.DebtMortgage: {
		{
			ID:               "mtg-jpmmt",
			Name:             "J.P. Morgan Mortgage Trust",
			Trustee:          "U.S. Bank National Association",
			DebtType:         models.DebtMortgage,
			ServicerPrefixes: []string{"JPMorgan Chase", "Chase", "NewRez", "Shellpoint"},
			Originators:      []string{"JPMorgan Chase Bank", "United Wholesale Mortgage"},
			VintageStart:     2013,
			VintageEnd:       2025,
			IdentifierBase:   "46654Q",
			Tranches: []trancheSpec{
				{Label: "A-3", Rating: "AAA", FaceBalance: 420_000_000},
				{Label: "A-4", Rating: "AAA", FaceBalance: 185_000_000},
				{Label: "B-1", Rating: "AA", FaceBalance: 36_000_000},
				{Label: "B-2", Rating: "A", FaceBalance: 28_000_000},
			},
		},
		{
			ID:               "mtg-wfmbs",
			Name:             "Wells Fargo Mortgage Backed Securities Trust",
			Trustee:          "HSBC Bank USA, N.A.",
			DebtType:         models.DebtMortgage,
			ServicerPrefixes: []string{"Wells Fargo Home Mortgage", "Wells Fargo"},
			Originators:      []string{"Wells Fargo Bank, N.A."},
			VintageStart:     2003,
			VintageEnd:       2021,
			IdentifierBase:   "94975P",
			Tranches: []trancheSpec{
				{Label: "A-1", Rating: "AAA", FaceBalance: 350_000_000},
				{Label: "A-2", Rating: "AAA", FaceBalance: 190_000_000},
				{Label: "B-1", Rating: "AA", FaceBalance: 24_000_000},
			},
		},
		{
			ID:               "mtg-citigroup-cmlti",
			Name:             "Citigroup Mortgage Loan Trust",
			Trustee:          "The Bank of New York Mellon",
			DebtType:         models.DebtMortgage,
			ServicerPrefixes: []string{"CitiMortgage", "Citi", "Cenlar"},
			Originators:      []string{"Citibank, N.A."},
			VintageStart:     2004,
			VintageEnd:       2023,
			IdentifierBase:   "17325D",
			Tranches: []trancheSpec{
				{Label: "1-A1", Rating: "AAA", FaceBalance: 280_000_000},
				{Label: "1-A2", Rating: "AAA", FaceBalance: 140_000_000},
				{Label: "B-1", Rating: "AA-", FaceBalance: 19_000_000},
			},
		},
		{
			ID:               "mtg-gsmbs",
			Name:             "GS Mortgage-Backed Securities Trust",
			Trustee:          "U.S. Bank National Association",
			DebtType:         models.DebtMortgage,
			ServicerPrefixes: []string{"Goldman Sachs", "NewRez", "Select Portfolio Servicing"},
			Originators:      []string{"Goldman Sachs Bank USA"},
			VintageStart:     2014,
			VintageEnd:       2025,
			IdentifierBase:   "36267C",
			Tranches: []trancheSpec{
				{Label: "A-1", Rating: "AAA", FaceBalance: 390_000_000},
				{Label: "A-2", Rating: "AAA", FaceBalance: 160_000_000},
				{Label: "B", Rating: "AA", FaceBalance: 31_000_000},
			},
		},
	},
	models.DebtCreditCard: {
		{
			ID:               "cc-chaseseries",
			Name:             "Chase Issuance Trust",
			Trustee:          "Wells Fargo Bank, N.A.",
			DebtType:         models.DebtCreditCard,
			ServicerPrefixes: []string{"Chase", "JPMorgan Chase"},
			Originators:      []string{"Chase Bank USA"},
			VintageStart:     2002,
			VintageEnd:       2025,
			IdentifierBase:   "161571",
			Tranches: []trancheSpec{
				{Label: "A", Rating: "AAA", FaceBalance: 1_000_000_000},
				{Label: "B", Rating: "A", FaceBalance: 90_000_000},
				{Label: "C", Rating: "BBB", FaceBalance: 85_000_000},
			},
		},
		{
			ID:               "cc-citiseries",
			Name:             "Citibank Credit Card Issuance Trust",
			Trustee:          "Deutsche Bank Trust Company Americas",
			DebtType:         models.DebtCreditCard,
			ServicerPrefixes: []string{"Citibank", "Citi"},
			Originators:      []string{"Citibank, N.A."},
			VintageStart:     2000,
			VintageEnd:       2025,
			IdentifierBase:   "17305E",
			Tranches: []trancheSpec{
				{Label: "A", Rating: "AAA", FaceBalance: 850_000_000},
				{Label: "B", Rating: "A+", FaceBalance: 70_000_000},
			},
		},
		{
			ID:               "cc-capitalone",
			Name:             "Capital One Multi-Asset Execution Trust",
			Trustee:          "The Bank of New York Mellon",
			DebtType:         models.DebtCreditCard,
			ServicerPrefixes: []string{"Capital One"},
			Originators:      []string{"Capital One Bank (USA)"},
			VintageStart:     2002,
			VintageEnd:       2025,
			IdentifierBase:   "14041N",
			Tranches: []trancheSpec{
				{Label: "A", Rating: "AAA", FaceBalance: 750_000_000},
				{Label: "B", Rating: "A", FaceBalance: 55_000_000},
				{Label: "C", Rating: "BBB", FaceBalance: 50_000_000},
			},
		},
		{
			ID:               "cc-discover",
			Name:             "Discover Card Execution Note Trust",
			Trustee:          "U.S. Bank National Association",
			DebtType:         models.DebtCreditCard,
			ServicerPrefixes: []string{"Discover"},
			Originators:      []string{"Discover Bank"},
			VintageStart:     2007,
			VintageEnd:       2025,
			IdentifierBase:   "254683",
			Tranches: []trancheSpec{
				{Label: "A", Rating: "AAA", FaceBalance: 600_000_000},
				{Label: "B", Rating: "A+", FaceBalance: 42_000_000},
			},
		},
	},
	models.DebtStudentLoan: {
		{
			ID:               "sl-navient",
			Name:             "Navient Student Loan Trust",
			Trustee:          "Deutsche Bank National Trust Company",
			DebtType:         models.DebtStudentLoan,
			ServicerPrefixes: []string{"Navient", "Sallie Mae"},
			Originators:      []string{"SLM Corporation"},
			VintageStart:     2014,
			VintageEnd:       2025,
			IdentifierBase:   "63938Q",
			Tranches: []trancheSpec{
				{Label: "A-1", Rating: "AAA", FaceBalance: 310_000_000},
				{Label: "A-2", Rating: "AAA", FaceBalance: 220_000_000},
				{Label: "B", Rating: "AA-", FaceBalance: 40_000_000},
			},
		},
		{
			ID:               "sl-smb",
			Name:             "SMB Private Education Loan Trust",
			Trustee:          "U.S. Bank National Association",
			DebtType:         models.DebtStudentLoan,
			ServicerPrefixes: []string{"Sallie Mae", "SLM"},
			Originators:      []string{"Sallie Mae Bank"},
			VintageStart:     2014,
			VintageEnd:       2025,
			IdentifierBase:   "78448Q",
			Tranches: []trancheSpec{
				{Label: "A", Rating: "AAA", FaceBalance: 380_000_000},
				{Label: "B", Rating: "AA", FaceBalance: 52_000_000},
			},
		},
		{
			ID:               "sl-nelnet",
			Name:             "Nelnet Student Loan Trust",
			Trustee:          "Zions Bancorporation, N.A.",
			DebtType:         models.DebtStudentLoan,
			ServicerPrefixes: []string{"Nelnet"},
			Originators:      []string{"Nelnet, Inc."},
			VintageStart:     2004,
			VintageEnd:       2025,
			IdentifierBase:   "64031Q",
			Tranches: []trancheSpec{
				{Label: "A-1", Rating: "AAA", FaceBalance: 270_000_000},
				{Label: "A-2", Rating: "AAA", FaceBalance: 180_000_000},
				{Label: "B", Rating: "A+", FaceBalance: 26_000_000},
			},
		},
	},
	models.DebtPersonalLoan: {
		{
			ID:               "pl-onemain",
			Name:             "OneMain Financial Issuance Trust",
			Trustee:          "Wells Fargo Bank, N.A.",
			DebtType:         models.DebtPersonalLoan,
			ServicerPrefixes: []string{"OneMain"},
			Originators:      []string{"OneMain Finance Corporation"},
			VintageStart:     2014,
			VintageEnd:       2025,
			IdentifierBase:   "68268B",
			Tranches: []trancheSpec{
				{Label: "A", Rating: "AAA", FaceBalance: 420_000_000},
				{Label: "B", Rating: "AA", FaceBalance: 48_000_000},
				{Label: "C", Rating: "A", FaceBalance: 44_000_000},
			},
		},
		{
			ID:               "pl-marlette",
			Name:             "Marlette Funding Trust",
			Trustee:          "Wilmington Trust, N.A.",
			DebtType:         models.DebtPersonalLoan,
			ServicerPrefixes: []string{"Marlette", "Best Egg"},
			Originators:      []string{"Cross River Bank"},
			VintageStart:     2016,
			VintageEnd:       2025,
			IdentifierBase:   "57109Q",
			Tranches: []trancheSpec{
				{Label: "A", Rating: "AA", FaceBalance: 260_000_000},
				{Label: "B", Rating: "A", FaceBalance: 34_000_000},
			},
		},
		{
			ID:               "pl-upstart",
			Name:             "Upstart Securitization Trust",
			Trustee:          "Wilmington Savings Fund Society, FSB",
			DebtType:         models.DebtPersonalLoan,
			ServicerPrefixes: []string{"Upstart"},
			Originators:      []string{"Cross River Bank", "FinWise Bank"},
			VintageStart:     2017,
			VintageEnd:       2025,
			IdentifierBase:   "91680Q",
			Tranches: []trancheSpec{
				{Label: "A", Rating: "A", FaceBalance: 190_000_000},
				{Label: "B", Rating: "BBB", FaceBalance: 41_000_000},
				{Label: "C", Rating: "BB", FaceBalance: 27_000_000},
			},
		},
	},
}
