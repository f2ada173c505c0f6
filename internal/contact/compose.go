package contact

import (
	"fmt"
	"strings"

	"github.com/northsummit/contact/internal/mailer"
)

var subjectCleaner = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// Subject returns the enquiry subject line, e.g. "[AUDIT] New enquiry from Sam".
func Subject(s Submission) string {
	return subjectCleaner.Replace(fmt.Sprintf("[%s] New enquiry from %s", strings.ToUpper(s.Intent), s.Name))
}

// RenderHTML builds the enquiry body. User text is escaped before message
// newlines are turned into line breaks.
func RenderHTML(s Submission) string {
	heading := "enquiry"
	if s.IsAudit() {
		heading = "audit request"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>New %s</h2>\n", heading)
	writeField(&b, "Name", s.Name)
	writeField(&b, "Email", s.Email)
	writeField(&b, "Phone", s.Phone)
	writeField(&b, "Website", s.WebsiteURL)
	writeField(&b, "Trade", s.Trade)
	writeField(&b, "Service area", s.ServiceArea)
	b.WriteString("<hr />\n")

	message := strings.ReplaceAll(s.Message, "\r\n", "\n")
	message = strings.ReplaceAll(EscapeHTML(message), "\n", "<br>")
	fmt.Fprintf(&b, "<p>%s</p>\n", message)
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "<p><strong>%s:</strong> %s</p>\n", label, EscapeHTML(value))
}

// Compose builds the outbound message for a validated submission. Replies go
// straight to the visitor.
func Compose(s Submission, from, to string) mailer.Message {
	return mailer.Message{
		From:    from,
		To:      to,
		ReplyTo: s.Email,
		Subject: Subject(s),
		HTML:    RenderHTML(s),
	}
}
