package billing

import "github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/models"

// Plan is the usage envelope for one subscription tier. A limit of -1
// means unbounded.
type Plan struct {
	Tier                string
	MaxDocuments        int
	MaxDocumentVersions int
	MaxGroups           int
}

var plans = map[string]Plan{
	models.TierFree: {
		Tier:                models.TierFree,
		MaxDocuments:        5,
		MaxDocumentVersions: 3,
		MaxGroups:           1,
	},
	models.TierPremium: {
		Tier:                models.TierPremium,
		MaxDocuments:        -1,
		MaxDocumentVersions: -1,
		MaxGroups:           -1,
	},
}

// PlanForTier falls back to the free plan for unknown tiers.
func PlanForTier(tier string) Plan {
	if p, ok := plans[tier]; ok {
		return p
	}
	return plans[models.TierFree]
}

func (p Plan) AllowsDocuments(current int) bool {
	return p.MaxDocuments < 0 || current < p.MaxDocuments
}

func (p Plan) AllowsVersions(current int) bool {
	return p.MaxDocumentVersions < 0 || current < p.MaxDocumentVersions
}

func (p Plan) AllowsGroups(current int) bool {
	return p.MaxGroups < 0 || current < p.MaxGroups
}
