package models

import "errors"

// DebtType categorizes a consumer obligation for catalog and keyword lookups.
type DebtType string

const (
	DebtMortgage     DebtType = "mortgage"
	DebtAuto         DebtType = "auto"
	DebtCreditCard   DebtType = "credit_card"
	DebtStudentLoan  DebtType = "student_loan"
	DebtPersonalLoan DebtType = "personal_loan"
)

// KnownDebtTypes lists every category the engine understands.
var KnownDebtTypes = []DebtType{
	DebtMortgage,
	DebtAuto,
	DebtCreditCard,
	DebtStudentLoan,
	DebtPersonalLoan,
}

// Valid reports whether t is a recognized debt type.
func (t DebtType) Valid() bool {
	for _, k := range KnownDebtTypes {
		if t == k {
			return true
		}
	}
	return false
}

// ErrInvalidProfile is returned when a profile cannot be investigated at all
// (unknown debt type, empty profile). It is the only error Investigate surfaces.
var ErrInvalidProfile = errors.New("invalid debt profile")

// ErrNotFound is returned by lookup-style sources for a missing record.
var ErrNotFound = errors.New("record not found")

// DebtProfile is the immutable input to one investigation run.
// Everything except DebtType is optional; empty fields simply contribute
// fewer search queries and weaker offline matches.
type DebtProfile struct {
	DebtType         DebtType
	ServicerName     string
	OriginalCreditor string
	AccountNumber    string
	State            string  // two-letter state code
	ApproxBalance    float64 // 0 = unknown
	OriginationYear  int     // 0 = unknown
}

// Validate checks the profile before an investigation starts.
func (p DebtProfile) Validate() error {
	if !p.DebtType.Valid() {
		return ErrInvalidProfile
	}
	return nil
}
