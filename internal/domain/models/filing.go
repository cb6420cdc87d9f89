package models

import "time"

// Filing is one normalized hit from a filing registry search.
type Filing struct {
	EntityName  string
	FormType    string // "SF-3", "424B5", ...
	FilingDate  time.Time
	DocumentURL string
	Identifiers []string // security identifier codes extracted from the document
	RegistryID  string   // registrant id for the secondary lookup, "" if none
	DealSize    float64  // USD, 0 if not stated
}

// ABSFormTypes are filing categories specific to asset-backed issuance.
var ABSFormTypes = map[string]bool{
	"SF-1":   true,
	"SF-3":   true,
	"424B2":  true,
	"424B5":  true,
	"FWP":    true,
	"ABS-EE": true,
}

// IdentifierRecord is one normalized hit from a security identifier registry.
type IdentifierRecord struct {
	Identifier   string
	Name         string
	Issuer       string
	MarketSector string
	SecurityType string
}

// RegistrantRecord is the registrant metadata behind a filing's registry id.
type RegistrantRecord struct {
	RegistryID   string
	TaxID        string
	Jurisdiction string
	Address      string
}
