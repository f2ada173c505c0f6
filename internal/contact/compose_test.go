package contact

import (
	"strings"
	"testing"
)

func TestComposeEscapesMessage(t *testing.T) {
	s, err := Validate(Parse(map[string]any{
		"name":    "Jane",
		"email":   "jane@example.com",
		"message": "Hello <script>x</script>\nSecond line",
	}))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	msg := Compose(s, "NorthSummit <onboarding@resend.dev>", "hello@northsummit.example")

	if !strings.Contains(msg.HTML, "&lt;script&gt;x&lt;/script&gt;<br>Second line") {
		t.Fatalf("expected escaped message with line break, got:\n%s", msg.HTML)
	}
	if strings.Contains(msg.HTML, "<script>") {
		t.Fatalf("raw script tag leaked into html:\n%s", msg.HTML)
	}
	if msg.ReplyTo != "jane@example.com" {
		t.Fatalf("expected reply-to to be the visitor got %q", msg.ReplyTo)
	}
	if msg.From != "NorthSummit <onboarding@resend.dev>" || msg.To != "hello@northsummit.example" {
		t.Fatalf("unexpected addresses: %+v", msg)
	}
}

func TestComposeSubject(t *testing.T) {
	tests := []struct {
		intent string
		name   string
		want   string
	}{
		{intent: "quote", name: "Jane", want: "[QUOTE] New enquiry from Jane"},
		{intent: "audit", name: "Sam Sparks", want: "[AUDIT] New enquiry from Sam Sparks"},
		{intent: "Question", name: "Ali", want: "[QUESTION] New enquiry from Ali"},
		{intent: "quote", name: "Eve\r\nBcc: x@y.z", want: "[QUOTE] New enquiry from Eve Bcc: x@y.z"},
	}
	for _, tt := range tests {
		got := Subject(Submission{Intent: tt.intent, Name: tt.name})
		if got != tt.want {
			t.Errorf("Subject(%q, %q) = %q, want %q", tt.intent, tt.name, got, tt.want)
		}
	}
}

func TestRenderHTMLHeading(t *testing.T) {
	audit := RenderHTML(Submission{Intent: "audit", Name: "A", Email: "a@b.co", Message: "0123456789"})
	if !strings.HasPrefix(audit, "<h2>New audit request</h2>") {
		t.Fatalf("expected audit heading got:\n%s", audit)
	}

	upper := RenderHTML(Submission{Intent: "AUDIT", Name: "A", Email: "a@b.co", Message: "0123456789"})
	if !strings.HasPrefix(upper, "<h2>New audit request</h2>") {
		t.Fatalf("expected audit heading for uppercase intent got:\n%s", upper)
	}

	quote := RenderHTML(Submission{Intent: "question", Name: "A", Email: "a@b.co", Message: "0123456789"})
	if !strings.HasPrefix(quote, "<h2>New enquiry</h2>") {
		t.Fatalf("expected enquiry heading got:\n%s", quote)
	}
}

func TestRenderHTMLFieldOrder(t *testing.T) {
	html := RenderHTML(Submission{
		Intent:      "audit",
		Name:        "Sam",
		Email:       "sam@sparks.example",
		Phone:       "07700 900123",
		WebsiteURL:  "https://sparks.example/?a=1&b=2",
		Trade:       "Electrician",
		ServiceArea: "Derby",
		Message:     "Please audit my site.",
	})

	order := []string{
		"<h2>New audit request</h2>",
		"<p><strong>Name:</strong> Sam</p>",
		"<p><strong>Email:</strong> sam@sparks.example</p>",
		"<p><strong>Phone:</strong> 07700 900123</p>",
		"<p><strong>Website:</strong> https://sparks.example/?a=1&amp;b=2</p>",
		"<p><strong>Trade:</strong> Electrician</p>",
		"<p><strong>Service area:</strong> Derby</p>",
		"<hr />",
		"<p>Please audit my site.</p>",
	}

	pos := 0
	for _, part := range order {
		idx := strings.Index(html[pos:], part)
		if idx < 0 {
			t.Fatalf("expected %q after offset %d in:\n%s", part, pos, html)
		}
		pos += idx + len(part)
	}
}

func TestRenderHTMLOmitsMissingOptionalFields(t *testing.T) {
	html := RenderHTML(Submission{Intent: "quote", Name: "Jane", Email: "jane@example.com", Message: "0123456789"})
	for _, label := range []string{"Phone:", "Website:", "Trade:", "Service area:"} {
		if strings.Contains(html, label) {
			t.Fatalf("expected %s to be omitted got:\n%s", label, html)
		}
	}
}

func TestRenderHTMLNormalisesCRLF(t *testing.T) {
	html := RenderHTML(Submission{Intent: "quote", Name: "J", Email: "j@e.co", Message: "one\r\ntwo"})
	if !strings.Contains(html, "<p>one<br>two</p>") {
		t.Fatalf("expected CRLF to become a single break got:\n%s", html)
	}
}
