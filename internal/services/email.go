package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"

	"sweetshop/internal/config"
	"sweetshop/internal/logger"
	"sweetshop/internal/models"
)

// EmailService notifies the shop owner about new orders and contact messages.
type EmailService struct {
	dialer *gomail.Dialer
	from   string
	to     string
	logg   *logger.Logger
}

// NewEmailService returns a mailer. Without SMTP credentials or a recipient
// it only logs what it would have sent.
func NewEmailService(cfg config.SMTPConfig, logg *logger.Logger) *EmailService {
	if logg == nil {
		logg = logger.Nop()
	}
	es := &EmailService{from: "noreply@sweetshop.local", to: cfg.NotifyTo, logg: logg}
	if !cfg.Enabled() || cfg.NotifyTo == "" {
		logg.Info(context.Background(), "smtp not configured, owner notifications are logged only")
		return es
	}
	es.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	es.from = cfg.User
	return es
}

// NotifyOrderPlaced mails an order summary to the owner.
func (es *EmailService) NotifyOrderPlaced(ctx context.Context, order models.Order) error {
	subject := fmt.Sprintf("New order %s - %s", order.ID, order.Total.StringFixed(2))
	return es.send(ctx, subject, orderBody(order))
}

// NotifyContactMessage mails a contact form submission to the owner.
func (es *EmailService) NotifyContactMessage(ctx context.Context, msg models.Message) error {
	subject := "New contact message from " + msg.Name
	body := fmt.Sprintf(`
		<h2>Contact message</h2>
		<p><b>From:</b> %s &lt;%s&gt;</p>
		<p>%s</p>
	`, html.EscapeString(msg.Name), html.EscapeString(msg.Email), html.EscapeString(msg.Message))
	return es.send(ctx, subject, body)
}

func (es *EmailService) send(ctx context.Context, subject, body string) error {
	if es.dialer == nil {
		es.logg.Debug(es.logg.WithField(ctx, "subject", subject), "mail.skipped")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", es.from)
	m.SetHeader("To", es.to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := es.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	es.logg.Info(es.logg.WithField(ctx, "subject", subject), "mail.sent")
	return nil
}

func orderBody(order models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Order %s</h2>", html.EscapeString(order.ID))
	fmt.Fprintf(&b, "<p>%s, %s<br>%s, %s %s</p>",
		html.EscapeString(order.Customer), html.EscapeString(order.Phone),
		html.EscapeString(order.Address.City), html.EscapeString(order.Address.State), html.EscapeString(order.Address.Pincode))
	b.WriteString("<table><tr><th>Item</th><th>Cartons</th><th>Pieces</th><th>Total</th></tr>")
	for _, it := range order.Items {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>%d</td><td>%s</td></tr>",
			html.EscapeString(it.Name), it.Qty, it.TotalPieces, it.Total.StringFixed(2))
	}
	fmt.Fprintf(&b, "</table><p><b>Total:</b> %s</p>", order.Total.StringFixed(2))
	return b.String()
}
