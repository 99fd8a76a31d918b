package billing

import (
	"testing"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/models"
)

func TestPlanForTier(t *testing.T) {
	if p := PlanForTier(models.TierPremium); p.MaxDocuments != -1 {
		t.Errorf("premium MaxDocuments = %d, want unbounded", p.MaxDocuments)
	}
	if p := PlanForTier("SOMETHING_ELSE"); p.Tier != models.TierFree {
		t.Errorf("unknown tier resolved to %q, want free fallback", p.Tier)
	}
}

func TestPlanQuotas(t *testing.T) {
	free := PlanForTier(models.TierFree)
	premium := PlanForTier(models.TierPremium)

	tests := []struct {
		name    string
		plan    Plan
		current int
		check   func(Plan, int) bool
		want    bool
	}{
		{"free under document cap", free, free.MaxDocuments - 1, Plan.AllowsDocuments, true},
		{"free at document cap", free, free.MaxDocuments, Plan.AllowsDocuments, false},
		{"free over document cap", free, free.MaxDocuments + 3, Plan.AllowsDocuments, false},
		{"free at version cap", free, free.MaxDocumentVersions, Plan.AllowsVersions, false},
		{"free under version cap", free, 0, Plan.AllowsVersions, true},
		{"free at group cap", free, free.MaxGroups, Plan.AllowsGroups, false},
		{"premium ignores document cap", premium, 100000, Plan.AllowsDocuments, true},
		{"premium ignores version cap", premium, 100000, Plan.AllowsVersions, true},
		{"premium ignores group cap", premium, 100000, Plan.AllowsGroups, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.plan, tt.current); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
