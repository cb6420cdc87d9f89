package query

import (
	"reflect"
	"strings"
	"testing"

	"TrustTrace/internal/domain/models"
)

func TestBuildQueriesOrder(t *testing.T) {
	p := models.DebtProfile{
		DebtType:         models.DebtAuto,
		ServicerName:     "Santander Consumer USA",
		OriginalCreditor: "Chrysler Capital",
	}
	qs := BuildQueries(p)
	if len(qs) == 0 {
		t.Fatalf("expected queries")
	}
	if qs[0] != "Santander Consumer USA" {
		t.Fatalf("servicer query must come first, got %q", qs[0])
	}
	// creditor queries before the generic phrase
	credIdx, phraseIdx := -1, -1
	for i, q := range qs {
		if q == "Chrysler Capital" {
			credIdx = i
		}
		if q == "auto receivables trust" {
			phraseIdx = i
		}
	}
	if credIdx < 0 || phraseIdx < 0 || credIdx > phraseIdx {
		t.Fatalf("unexpected order: %v", qs)
	}
}

func TestBuildQueriesDeterministic(t *testing.T) {
	p := models.DebtProfile{DebtType: models.DebtCreditCard, ServicerName: "Capital One"}
	a := BuildQueries(p)
	b := BuildQueries(p)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical results, got %v vs %v", a, b)
	}
}

func TestBuildQueriesDedup(t *testing.T) {
	// servicer equal to a known issuer must not produce a duplicate query
	p := models.DebtProfile{DebtType: models.DebtStudentLoan, ServicerName: "Navient"}
	qs := BuildQueries(p)
	seen := make(map[string]bool)
	for _, q := range qs {
		k := strings.ToLower(q)
		if seen[k] {
			t.Fatalf("duplicate query %q in %v", q, qs)
		}
		seen[k] = true
	}
}

func TestBuildQueriesEmptyProfile(t *testing.T) {
	qs := BuildQueries(models.DebtProfile{DebtType: models.DebtMortgage})
	if len(qs) == 0 {
		t.Fatalf("expected at least the keyword phrase and issuer queries")
	}
	if qs[0] != "mortgage loan trust" {
		t.Fatalf("expected phrase first without servicer/creditor, got %q", qs[0])
	}
}
