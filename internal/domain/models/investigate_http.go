package models

// Requests for the investigation HTTP endpoints. Defined in domain for consistency and reuse.

type InvestigateRequest struct {
	DebtType         string  `json:"debt_type" validate:"required,oneof=mortgage auto credit_card student_loan personal_loan"`
	ServicerName     string  `json:"servicer_name" validate:"omitempty,max=200"`
	OriginalCreditor string  `json:"original_creditor" validate:"omitempty,max=200"`
	AccountNumber    string  `json:"account_number" validate:"omitempty,max=64"`
	State            string  `json:"state" validate:"omitempty,len=2"`
	ApproxBalance    float64 `json:"approx_balance" validate:"gte=0"`
	OriginationYear  int     `json:"origination_year" validate:"omitempty,gte=1980,lte=2100"`
	Quick            bool    `json:"quick"`
}

// Profile converts the request into a domain profile.
func (r *InvestigateRequest) Profile() DebtProfile {
	return DebtProfile{
		DebtType:         DebtType(r.DebtType),
		ServicerName:     r.ServicerName,
		OriginalCreditor: r.OriginalCreditor,
		AccountNumber:    r.AccountNumber,
		State:            r.State,
		ApproxBalance:    r.ApproxBalance,
		OriginationYear:  r.OriginationYear,
	}
}

type TradingSummaryRequest struct {
	Identifier string `query:"identifier" json:"identifier" validate:"required,max=20"`
	From       string `query:"from" json:"from"`
	To         string `query:"to" json:"to"`
	Limit      int    `query:"limit" json:"limit" default:"500" validate:"gte=1,lte=10000"`
}
