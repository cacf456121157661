package valueobjects

type SubscriptionStatus string

const (
	StatusPending    SubscriptionStatus = "pending"
	StatusAuthorized SubscriptionStatus = "authorized"
	StatusPaused     SubscriptionStatus = "paused"
	StatusCanceled   SubscriptionStatus = "canceled"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAuthorized, StatusPaused, StatusCanceled:
		return true
	default:
		return false
	}
}

// IsAuthorized is the only state that grants premium access.
func (s SubscriptionStatus) IsAuthorized() bool {
	return s == StatusAuthorized
}

func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	transitions := map[SubscriptionStatus][]SubscriptionStatus{
		StatusPending:    {StatusAuthorized, StatusCanceled},
		StatusAuthorized: {StatusPaused, StatusCanceled},
		StatusPaused:     {StatusAuthorized, StatusCanceled},
		StatusCanceled:   {},
	}

	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
