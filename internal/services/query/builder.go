package query

import (
	"strings"

	"TrustTrace/internal/domain/models"
)

// BuildQueries derives the ordered, deduplicated search strings for a profile.
// Priority: servicer-derived, creditor-derived, the debt-type keyword phrase,
// then one query per well-known issuer combined with the phrase. Deduplication
// is first-seen and case-insensitive. The result is fully deterministic.
func BuildQueries(profile models.DebtProfile) []string {
	phrase := KeywordPhrase(profile.DebtType)

	var out []string
	seen := make(map[string]bool)
	add := func(q string) {
		q = strings.TrimSpace(q)
		if q == "" {
			return
		}
		key := strings.ToLower(q)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, q)
	}

	if s := profile.ServicerName; s != "" {
		add(s)
		add(s + " trust")
		if phrase != "" {
			add(s + " " + phrase)
		}
	}
	if c := profile.OriginalCreditor; c != "" {
		add(c)
		if phrase != "" {
			add(c + " " + phrase)
		}
	}
	add(phrase)
	for _, issuer := range KnownIssuers(profile.DebtType) {
		if phrase != "" {
			add(issuer + " " + phrase)
		}
	}
	return out
}
