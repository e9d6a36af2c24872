// Package render builds digest content out of an alert's matched listings.
// It is a pure formatting layer: no I/O, no state.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dealsight/dealsight/internal/domain"
	"github.com/dealsight/dealsight/internal/matching"
)

const descriptionPreviewLen = 200

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(alert domain.Alert, user domain.User, exact, other []matching.Match) domain.RenderedContent {
	total := len(exact) + len(other)

	subject := "Your Personalized Deal Updates"
	if alert.Name != "" {
		subject = fmt.Sprintf("%s: %d new listing%s for %q", subject, total, plural(total), alert.Name)
	}

	return domain.RenderedContent{
		Subject: subject,
		HTML:    renderHTML(alert, exact, other),
		Text:    renderText(alert, exact, other),
	}
}

func renderHTML(alert domain.Alert, exact, other []matching.Match) string {
	var b strings.Builder

	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<h1 style="color: #333; padding: 20px 0;">Your Personalized Deal Alert</h1>`)
	b.WriteString(`<p style="color: #666;">Here are new listings matching your criteria:</p>`)

	b.WriteString(`<div style="background-color: #f8f9fa; padding: 15px; border-radius: 5px; margin-bottom: 20px;">`)
	b.WriteString(`<h3 style="margin: 0 0 10px 0;">Your Search Criteria:</h3><p style="margin: 5px 0;">`)
	b.WriteString(fmt.Sprintf("Price Range: %s - %s<br>", formatBound(alert.MinPrice), formatBound(alert.MaxPrice)))
	b.WriteString(fmt.Sprintf("Industries: %s", formatSet(alert.Industries)))
	b.WriteString(`</p></div>`)

	if len(exact) > 0 {
		b.WriteString(`<h2 style="color: #333;">Top Matches</h2>`)
		for _, m := range exact {
			writeListingCard(&b, m.Listing)
		}
	}
	if len(other) > 0 {
		b.WriteString(`<h2 style="color: #333;">More New Listings</h2>`)
		for _, m := range other {
			writeListingCard(&b, m.Listing)
		}
	}

	b.WriteString(`<div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #ddd; color: #666;">`)
	b.WriteString(`<p>To update your alerts or unsubscribe, please visit your dashboard.</p>`)
	b.WriteString(`</div></div>`)

	return b.String()
}

func writeListingCard(b *strings.Builder, l domain.Listing) {
	b.WriteString(`<div style="margin-bottom: 20px; padding: 15px; border: 1px solid #ddd; border-radius: 5px;">`)
	b.WriteString(fmt.Sprintf(`<h3 style="margin: 0 0 10px 0;">%s</h3>`, htmlEscape(l.Title)))
	b.WriteString(`<div style="margin: 5px 0;">`)
	b.WriteString(fmt.Sprintf("<strong>Asking Price:</strong> %s<br>", FormatCurrency(l.AskingPrice)))
	b.WriteString(fmt.Sprintf("<strong>Revenue:</strong> %s<br>", FormatCurrency(l.Revenue)))
	b.WriteString(fmt.Sprintf("<strong>EBITDA:</strong> %s<br>", FormatCurrency(l.EBITDA)))
	b.WriteString(fmt.Sprintf("<strong>Industry:</strong> %s", htmlEscape(industryOrDefault(l.Industry))))
	b.WriteString(`</div>`)
	b.WriteString(fmt.Sprintf(`<p style="margin: 10px 0;">%s</p>`, htmlEscape(previewDescription(l))))
	b.WriteString(fmt.Sprintf(
		`<a href="%s" style="display: inline-block; padding: 8px 15px; background-color: #007bff; color: white; text-decoration: none; border-radius: 3px;">View Listing Details</a>`,
		htmlEscape(l.URL),
	))
	b.WriteString(`</div>`)
}

func renderText(alert domain.Alert, exact, other []matching.Match) string {
	var b strings.Builder

	b.WriteString("Your Personalized Deal Alert\n\n")
	if len(exact) > 0 {
		b.WriteString("Top matches:\n")
		for _, m := range exact {
			writeListingLine(&b, m.Listing)
		}
		b.WriteString("\n")
	}
	if len(other) > 0 {
		b.WriteString("More new listings:\n")
		for _, m := range other {
			writeListingLine(&b, m.Listing)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeListingLine(b *strings.Builder, l domain.Listing) {
	fmt.Fprintf(b, "- %s | %s | %s\n  %s\n", l.Title, FormatCurrency(l.AskingPrice), industryOrDefault(l.Industry), l.URL)
}

// FormatCurrency renders a whole-dollar amount with thousands separators.
// Zero means the value was never extracted and shows as N/A.
func FormatCurrency(amount int64) string {
	if amount == 0 {
		return "N/A"
	}
	s := fmt.Sprintf("%d", amount)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := "$" + strings.Join(parts, ",")
	if negative {
		out = "-" + out
	}
	return out
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func formatBound(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "Any"
	}
	return "$" + raw
}

func formatSet(values []string) string {
	if len(values) == 0 {
		return "All"
	}
	return strings.Join(values, ", ")
}

func industryOrDefault(industry domain.Industry) string {
	if industry == "" {
		return "Not specified"
	}
	return string(industry)
}

func previewDescription(l domain.Listing) string {
	text := l.SearchText()
	if len(text) <= descriptionPreviewLen {
		return text
	}
	// Back up to a rune boundary so the cut never splits a multi-byte
	// character.
	cut := descriptionPreviewLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func htmlEscape(s string) string {
	return htmlEscaper.Replace(s)
}
