package valueobjects

import "fmt"

type PlanKind string

const (
	PlanKindMonthly PlanKind = "monthly"
	PlanKindAnnual  PlanKind = "annual"
	PlanKindBundle  PlanKind = "bundle"
)

func ParsePlanKind(s string) (PlanKind, error) {
	k := PlanKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid plan kind: %q", s)
	}
	return k, nil
}

func (k PlanKind) IsValid() bool {
	switch k {
	case PlanKindMonthly, PlanKindAnnual, PlanKindBundle:
		return true
	default:
		return false
	}
}

// BillingDays is the length of the term one payment buys. A bundle is a
// one-off annual purchase.
func (k PlanKind) BillingDays() int {
	switch k {
	case PlanKindMonthly:
		return 30
	case PlanKindAnnual, PlanKindBundle:
		return 365
	default:
		return 0
	}
}

func (k PlanKind) String() string {
	return string(k)
}
