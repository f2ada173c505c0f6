package contact

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinMessageLength is the shortest accepted message, in characters.
const MinMessageLength = 10

// blankChars is the whitespace set browsers use for trim() and \s. It differs
// from unicode.IsSpace: U+FEFF counts and U+0085 does not.
const blankChars = `\t\n\v\f\r \x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

var emailPattern = regexp.MustCompile(`^[^` + blankChars + `@]+@[^` + blankChars + `@]+\.[^` + blankChars + `@]+$`)

// ValidationError describes the first rule a submission broke.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	errNameRequired  = &ValidationError{Field: "name", Message: "Name is required"}
	errEmailInvalid  = &ValidationError{Field: "email", Message: "Valid email is required"}
	errMessageLength = &ValidationError{Field: "message", Message: "Message must be at least 10 characters"}
)

// Validate checks the required fields in order and returns a trimmed copy of
// the submission. Only the first failing rule is reported.
func Validate(s Submission) (Submission, error) {
	name := trimBlank(s.Name)
	if name == "" {
		return Submission{}, errNameRequired
	}

	if !emailPattern.MatchString(s.Email) {
		return Submission{}, errEmailInvalid
	}

	message := trimBlank(s.Message)
	if utf8.RuneCountInString(message) < MinMessageLength {
		return Submission{}, errMessageLength
	}

	out := s
	out.Name = name
	out.Email = trimBlank(s.Email)
	out.Message = message
	out.Phone = trimBlank(s.Phone)
	out.WebsiteURL = trimBlank(s.WebsiteURL)
	out.Trade = trimBlank(s.Trade)
	out.ServiceArea = trimBlank(s.ServiceArea)
	return out, nil
}

func isBlank(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0xa0, 0x1680, 0x2028, 0x2029, 0x202f, 0x205f, 0x3000, 0xfeff:
		return true
	}
	return r >= 0x2000 && r <= 0x200a
}

func trimBlank(s string) string {
	return strings.TrimFunc(s, isBlank)
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes the five characters that are significant in HTML text and
// attribute values.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
