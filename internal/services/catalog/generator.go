package catalog

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"TrustTrace/internal/domain/models"
)

// SourceTag is the data-source tag offline candidates carry.
const SourceTag = "offline_catalog"

const (
	scoreServicerPrefix  = 40
	scoreServicerOverlap = 20
	scoreOriginator      = 15
	scoreVintage         = 15
	scoreGeography       = 10
	minScore             = 30
	maxScore             = 100
	jitterRange          = 10 // jitter in [0,9]
	defaultMaxResults    = 10
)

// Generator matches profiles against the bundled trust catalog without any
// network access. The jitter source only breaks near-ties; it is injected so
// tests can fix or disable it.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand // nil disables jitter
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand injects the jitter source. Pass nil to disable jitter entirely.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) { g.rng = rng }
}

// New creates a Generator. By default jitter is seeded from the clock.
func New(opts ...Option) *Generator {
	g := &Generator{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FindCandidates scores every catalog template for the debt type and returns
// the survivors ordered by descending match score, truncated to maxResults.
// The only failure mode is an unrecognized debt type.
func (g *Generator) FindCandidates(debtType models.DebtType, profile models.DebtProfile, maxResults int) ([]models.CandidateTrust, error) {
	templates, ok := templateCatalog[debtType]
	if !ok {
		return nil, fmt.Errorf("debt type %q: %w", debtType, models.ErrInvalidProfile)
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	now := time.Now()
	var out []models.CandidateTrust
	for _, tpl := range templates {
		score, reasons := g.scoreTemplate(tpl, profile)
		if score < minScore {
			continue
		}
		score += g.jitter()
		if score < minScore {
			score = minScore
		}
		if score > maxScore {
			score = maxScore
		}

		cand := models.CandidateTrust{
			ID:           tpl.ID,
			Name:         tpl.Name,
			Trustee:      tpl.Trustee,
			DebtType:     tpl.DebtType,
			Securities:   synthesizeSecurities(tpl),
			MatchScore:   score,
			MatchReasons: reasons,
			Verification: models.VerificationRecord{
				LastVerified:    now,
				ConfidenceScore: score,
			},
		}
		cand.Verification.AddSource(SourceTag)
		out = append(out, cand)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchScore != out[j].MatchScore {
			return out[i].MatchScore > out[j].MatchScore
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out, nil
}

// scoreTemplate applies the heuristic weights. The pre-jitter score decides
// survival; jitter never rescues a discarded template.
func (g *Generator) scoreTemplate(tpl trustTemplate, profile models.DebtProfile) (int, []string) {
	score := 0
	var reasons []string

	servicer := strings.ToLower(strings.TrimSpace(profile.ServicerName))
	if servicer != "" {
		for _, prefix := range tpl.ServicerPrefixes {
			if strings.Contains(servicer, strings.ToLower(prefix)) || strings.Contains(strings.ToLower(prefix), servicer) {
				score += scoreServicerPrefix
				reasons = append(reasons, fmt.Sprintf("servicer matches known servicer %q", prefix))
				break
			}
		}
		if nameOverlap(tpl.Name, profile.ServicerName) {
			score += scoreServicerOverlap
			reasons = append(reasons, "trust name overlaps servicer name")
		}
	}

	if creditor := profile.OriginalCreditor; creditor != "" {
		for _, orig := range tpl.Originators {
			if nameOverlap(orig, creditor) {
				score += scoreOriginator
				reasons = append(reasons, fmt.Sprintf("originator %q matches original creditor", orig))
				break
			}
		}
	}

	if y := profile.OriginationYear; y >= tpl.VintageStart && y <= tpl.VintageEnd && y != 0 {
		score += scoreVintage
		reasons = append(reasons, fmt.Sprintf("origination year %d inside shelf vintage %d-%d", y, tpl.VintageStart, tpl.VintageEnd))
	}

	if st := strings.ToUpper(strings.TrimSpace(profile.State)); st != "" {
		if len(tpl.States) == 0 {
			score += scoreGeography
			reasons = append(reasons, "national collateral footprint")
		} else {
			for _, s := range tpl.States {
				if s == st {
					score += scoreGeography
					reasons = append(reasons, fmt.Sprintf("collateral footprint includes %s", st))
					break
				}
			}
		}
	}

	return score, reasons
}

func (g *Generator) jitter() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rng == nil {
		return 0
	}
	return g.rng.Intn(jitterRange)
}

// nameOverlap reports whether the two names share a significant token.
func nameOverlap(a, b string) bool {
	tokensA := significantTokens(a)
	for tb := range significantTokens(b) {
		if tokensA[tb] {
			return true
		}
	}
	return false
}

var insignificant = map[string]bool{
	"trust": true, "inc": true, "llc": true, "corp": true, "na": true,
	"bank": true, "the": true, "of": true, "company": true, "financial": true,
	"and": true, "usa": true,
}

func significantTokens(name string) map[string]bool {
	out := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		if len(tok) < 3 || insignificant[tok] {
			continue
		}
		out[tok] = true
	}
	return out
}

const codeAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// synthesizeSecurities derives the known note classes of a shelf with
// deterministic identifier codes (issuer base + hashed class suffix).
func synthesizeSecurities(tpl trustTemplate) []models.SecurityIdentifier {
	out := make([]models.SecurityIdentifier, 0, len(tpl.Tranches))
	for _, tr := range tpl.Tranches {
		h := fnv.New32a()
		h.Write([]byte(tpl.ID))
		h.Write([]byte(tr.Label))
		v := h.Sum32()
		suffix := make([]byte, 3)
		for i := range suffix {
			suffix[i] = codeAlphabet[v%uint32(len(codeAlphabet))]
			v /= uint32(len(codeAlphabet))
		}
		out = append(out, models.SecurityIdentifier{
			Code:        tpl.IdentifierBase + string(suffix),
			Tranche:     tr.Label,
			Rating:      tr.Rating,
			FaceBalance: tr.FaceBalance,
		})
	}
	return out
}
