package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/activation"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/config"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/services/markdown"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/utils"
)

// Receipt is a composed activation email.
type Receipt struct {
	To        string
	Subject   string
	HTMLBody  string
	PlainBody string
}

// ReceiptListener mails the buyer once their premium access is active. The
// coordinator emits each activation once, so no dedup happens here.
type ReceiptListener struct {
	sender       Sender
	markdown     markdown.MarkdownService
	dashboardURL string
	logger       logger.Interface
}

func NewReceiptListener(
	sender Sender,
	markdownService markdown.MarkdownService,
	dashboardURL string,
	logger logger.Interface,
) *ReceiptListener {
	return &ReceiptListener{
		sender:       sender,
		markdown:     markdownService,
		dashboardURL: dashboardURL,
		logger:       logger,
	}
}

// NewReceiptListenerFromConfig returns nil when no SMTP host is configured.
func NewReceiptListenerFromConfig(cfg config.EmailConfig, logger logger.Interface) *ReceiptListener {
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		return nil
	}
	return NewReceiptListener(
		NewSMTPEmailService(cfg),
		markdown.NewMarkdownService(),
		cfg.DashboardURL,
		logger,
	)
}

func (l *ReceiptListener) OnActivated(ctx context.Context, ev activation.ActivationCompleted) {
	if strings.TrimSpace(ev.ContactEmail) == "" {
		return
	}

	receipt, err := l.Compose(ev)
	if err != nil {
		l.logger.Errorw("failed to compose activation receipt",
			"payment_id", ev.PaymentID,
			"error", err,
		)
		return
	}

	if err := l.sender.Send(receipt.To, receipt.Subject, receipt.HTMLBody, receipt.PlainBody); err != nil {
		l.logger.Warnw("failed to send activation receipt",
			"payment_id", ev.PaymentID,
			"email", utils.MaskEmail(ev.ContactEmail),
			"error", err,
		)
		return
	}

	l.logger.Infow("activation receipt sent",
		"payment_id", ev.PaymentID,
		"email", utils.MaskEmail(ev.ContactEmail),
	)
}

// Compose renders the receipt. The markdown source doubles as the plain-text
// alternative.
func (l *ReceiptListener) Compose(ev activation.ActivationCompleted) (*Receipt, error) {
	plan := PlanLabel(ev.PlanKind)

	var b strings.Builder
	fmt.Fprintf(&b, "## Pagamento confirmado\n\n")
	fmt.Fprintf(&b, "Seu **%s** do CorretorIA Premium está ativo.\n\n", plan)
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Valor | %s |\n", FormatAmount(ev.Amount))
	fmt.Fprintf(&b, "| Ativado em | %s |\n", FormatDate(ev.ActivatedAt))
	fmt.Fprintf(&b, "| Válido até | %s |\n", FormatDate(ev.NextPaymentDate))
	fmt.Fprintf(&b, "| Pagamento | %s |\n\n", ev.PaymentID)
	if l.dashboardURL != "" {
		fmt.Fprintf(&b, "[Acessar o painel](%s)\n", l.dashboardURL)
	}
	source := b.String()

	body, err := l.markdown.ToHTMLSanitized(source)
	if err != nil {
		return nil, err
	}

	return &Receipt{
		To:        ev.ContactEmail,
		Subject:   fmt.Sprintf("CorretorIA Premium: %s ativado", plan),
		HTMLBody:  body,
		PlainBody: source,
	}, nil
}
