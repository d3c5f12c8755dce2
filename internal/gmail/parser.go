package gmail

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// senderEmailRegex pulls the address out of "Name <addr>" From headers.
	senderEmailRegex = regexp.MustCompile(`<([^>]+)>`)

	// invisibleRegex matches zero-width spaces and other invisible Unicode
	// characters that HTML email markup tends to carry.
	invisibleRegex = regexp.MustCompile(`[\x{200B}-\x{200D}\x{FEFF}\x{00AD}\x{2060}-\x{2064}\x{206A}-\x{206F}\x{FE00}-\x{FE0F}]+`)

	// spaceRegex collapses runs of whitespace but leaves newlines alone.
	spaceRegex = regexp.MustCompile(`[^\S\n]+`)

	quotedLineRegex   = regexp.MustCompile(`(?m)^>.*$`)
	multiNewlineRegex = regexp.MustCompile(`\n{3,}`)
)

// blockElements are the HTML elements that should start on their own line
// once the tags are stripped.
const blockElements = "p, div, br, h1, h2, h3, h4, h5, h6, li, tr"

// HTMLToText converts HTML email content to plain text.
func HTMLToText(html string) string {
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// The underlying parser is tolerant and essentially never fails;
		// if it does, the raw markup is still better than nothing.
		return strings.TrimSpace(html)
	}

	// Drop everything that renders to no visible text.
	doc.Find("script, style, head, meta, link").Remove()

	// Add newlines before block elements so their text stays separated.
	doc.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("\n")
	})

	text := doc.Text()
	text = invisibleRegex.ReplaceAllString(text, "")
	text = spaceRegex.ReplaceAllString(text, " ")

	// Trim each line and drop the empty ones.
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}

// ExtractSenderEmail extracts just the email address from a "From" header
// e.g., "John Doe <john@example.com>" -> "john@example.com"
func ExtractSenderEmail(from string) string {
	matches := senderEmailRegex.FindStringSubmatch(from)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	// If no angle brackets, assume the whole thing is an email
	return strings.TrimSpace(from)
}

// ExtractSenderName extracts the display name from a "From" header
// e.g., "John Doe <john@example.com>" -> "John Doe"
func ExtractSenderName(from string) string {
	if idx := strings.Index(from, "<"); idx > 0 {
		name := strings.TrimSpace(from[:idx])
		name = strings.Trim(name, "\"'")
		return name
	}

	// If no name found, use the email address
	return ExtractSenderEmail(from)
}

// CleanEmailBody cleans and normalizes email body text before it is handed
// to the extraction model.
func CleanEmailBody(body string) string {
	// First convert HTML if present
	if strings.Contains(body, "<") && strings.Contains(body, ">") {
		body = HTMLToText(body)
	}

	// Remove common email signature patterns
	sigPatterns := []string{
		"-- \n",           // Standard signature delimiter
		"---\n",           // Alternative delimiter
		"Sent from my",    // Mobile signatures
		"Get Outlook for", // Outlook mobile signature
	}

	for _, pattern := range sigPatterns {
		if idx := strings.Index(body, pattern); idx > 0 {
			body = body[:idx]
		}
	}

	// Remove quoted text from previous emails in the thread
	body = quotedLineRegex.ReplaceAllString(body, "")

	body = multiNewlineRegex.ReplaceAllString(body, "\n\n")

	return strings.TrimSpace(body)
}
