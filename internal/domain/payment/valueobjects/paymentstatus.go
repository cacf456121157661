package valueobjects

// PaymentStatus is the lifecycle of a PIX payment record.
//
//	pending -> paid -> linked
//	pending -> expired
//
// linked is a paid guest record that has since been bound to an owner.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusLinked  PaymentStatus = "linked"
	PaymentStatusExpired PaymentStatus = "expired"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusLinked, PaymentStatusExpired:
		return true
	default:
		return false
	}
}

// IsPaid is true once the gateway has approved the payment, including after a
// guest record has been linked.
func (s PaymentStatus) IsPaid() bool {
	return s == PaymentStatusPaid || s == PaymentStatusLinked
}

func (s PaymentStatus) IsPending() bool {
	return s == PaymentStatusPending
}

func (s PaymentStatus) IsExpired() bool {
	return s == PaymentStatusExpired
}

func (s PaymentStatus) String() string {
	return string(s)
}
