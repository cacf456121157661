package email

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	vo "github.com/fabioff30/corretor-ia-v0-sub002/internal/domain/payment/valueobjects"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/biztime"
)

var receiptLanguage = language.BrazilianPortuguese

// FormatAmount renders m the way Brazilian customers read prices, e.g. "R$ 19,90".
func FormatAmount(m vo.Money) string {
	unit, err := currency.ParseISO(m.Currency())
	if err != nil {
		return m.String()
	}
	p := message.NewPrinter(receiptLanguage)
	return p.Sprintf("%v %v", currency.Symbol(unit), number.Decimal(m.Major(), number.Scale(2)))
}

// FormatDate renders t as dd/mm/yyyy in the business timezone.
func FormatDate(t time.Time) string {
	return t.In(biztime.Location()).Format("02/01/2006")
}

var planNames = map[vo.PlanKind]string{
	vo.PlanKindMonthly: "plano mensal",
	vo.PlanKindAnnual:  "plano anual",
	vo.PlanKindBundle:  "pacote anual",
}

// PlanLabel is the title-cased display name of kind.
func PlanLabel(kind vo.PlanKind) string {
	name, ok := planNames[kind]
	if !ok {
		name = string(kind)
	}
	return cases.Title(receiptLanguage).String(name)
}
