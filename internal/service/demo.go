package service

import (
	"strconv"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/api"
	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/google/uuid"
)

// DemoPlanID identifies the sample plan served while the API is offline.
const DemoPlanID = "demo"

// demoNamespace seeds the demo week IDs so they stay the same across calls.
var demoNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("twelveweeks:"+DemoPlanID))

// IsDemoPlan reports whether id names the offline sample plan.
func IsDemoPlan(id string) bool {
	return id == DemoPlanID
}

// DemoPlan builds the empty active plan shown when the API is unreachable.
// It starts today and has twelve empty weeks.
func DemoPlan(now time.Time) domain.Plan {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	p := domain.Plan{
		ID:          DemoPlanID,
		Title:       "Demo plan",
		Description: "Sample plan (API offline)",
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 7*domain.WeeksPerPlan),
		Status:      domain.PlanActive,
		Year:        start.Year(),
		Tags:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i := 0; i < domain.WeeksPerPlan; i++ {
		p.Weeks = append(p.Weeks, domain.Week{
			ID:        uuid.NewSHA1(demoNamespace, []byte(strconv.Itoa(i+1))).String(),
			PlanID:    DemoPlanID,
			Number:    i + 1,
			StartDate: start.AddDate(0, 0, 7*i),
			EndDate:   start.AddDate(0, 0, 7*i+6),
			Goals:     []domain.Goal{},
		})
	}
	return p
}

// demoMatches reports whether the demo plan belongs in a filtered list.
func demoMatches(f api.PlanFilter, now time.Time) bool {
	if f.Status != "" && f.Status != domain.PlanActive {
		return false
	}
	return f.Year == 0 || f.Year == now.Year()
}
