package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"

	"github.com/gondgesagar/Web-scrapper-alert/config"
	"github.com/gondgesagar/Web-scrapper-alert/models"
	"github.com/gondgesagar/Web-scrapper-alert/utils"
)

// maxItemsPerMail caps the rendered items; the remainder is summarized.
const maxItemsPerMail = 50

// Mailer sends the new-listing digest over SMTP.
type Mailer struct {
	cfg    *config.Config
	logger *utils.Logger
}

// NewMailer creates a Mailer with the given config.
func NewMailer(cfg *config.Config, logger *utils.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// NotifyNew emails the new/changed subset, grouped by category in display
// order. When the SMTP settings are incomplete the notification is skipped
// with a log line, not an error.
func (m *Mailer) NotifyNew(groups []models.CategoryGroup, total int) error {
	if total == 0 {
		return nil
	}
	if !m.cfg.SMTPConfigured() {
		m.logger.Warn("[notify] Email settings missing; skipping email notification")
		return nil
	}

	subject := fmt.Sprintf("BAANKNET updates: %d changed/new listing(s)", total)
	body := ComposeBody(groups, total)

	mail := email.NewEmail()
	mail.From = m.cfg.EmailFrom
	mail.To = splitAddresses(m.cfg.EmailTo)
	mail.Subject = subject
	mail.Text = []byte(body)

	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	if err := mail.Send(addr, auth); err != nil {
		return fmt.Errorf("notify: send via %s: %w", addr, err)
	}

	m.logger.Info("[notify] Sent digest with %d listing(s)", total)
	return nil
}

// ComposeBody renders the grouped digest text: category headers in display
// order, one block per item, capped at maxItemsPerMail.
func ComposeBody(groups []models.CategoryGroup, total int) string {
	var b strings.Builder
	b.WriteString("Detected updates:\n\n")

	rendered := 0
	for _, group := range groups {
		if rendered >= maxItemsPerMail {
			break
		}
		fmt.Fprintf(&b, "== %s (%d) ==\n\n", group.Category, len(group.Entries))
		for _, entry := range group.Entries {
			if rendered >= maxItemsPerMail {
				break
			}
			b.WriteString(FormatItem(entry.Summarize()))
			b.WriteString(strings.Repeat("-", 40) + "\n\n")
			rendered++
		}
	}
	if total > rendered {
		fmt.Fprintf(&b, "...and %d more.\n", total-rendered)
	}
	return b.String()
}

// FormatItem renders one listing block from its summary fields.
func FormatItem(s models.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Details: %s\n", s.Details)
	fmt.Fprintf(&b, "Bank: %s\n", s.Bank)
	fmt.Fprintf(&b, "Price: %s\n", s.Price)
	fmt.Fprintf(&b, "Posted: %s\n", s.Posted)
	if s.EMDCost != nil {
		fmt.Fprintf(&b, "EMD: %s\n", models.Stringify(s.EMDCost))
	}
	fmt.Fprintf(&b, "Link: %s\n", s.Link)
	if s.Photos != nil {
		fmt.Fprintf(&b, "Photos: %s\n", models.Stringify(s.Photos))
	}
	b.WriteString("Important dates:\n")
	if len(s.ImportantDates) == 0 {
		b.WriteString("- (none)\n")
	}
	for _, d := range s.ImportantDates {
		fmt.Fprintf(&b, "- %s: %s\n", d.Key, models.Stringify(d.Value))
	}
	return b.String()
}

func splitAddresses(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
