// Package cleaner implements the pure text transforms applied to every
// string field scraped from a source: HTML stripping, escape-sequence
// normalization, Unicode canonicalization, whitespace collapsing, and
// trimming.
package cleaner

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/criztiandev/ideavalidator/internal/models"
)

// skipElements lists elements whose text never belongs in cleaned output.
var skipElements = map[string]bool{
	"script": true, "style": true, "noscript": true,
	"head": true, "title": true, "nav": true, "footer": true, "aside": true,
}

// spaceAfterElements are block-level tags after which a separating space is
// inserted so adjacent text nodes don't run together.
var spaceAfterElements = map[string]bool{
	"p": true, "div": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "li": true, "article": true, "section": true,
	"header": true, "br": true, "tr": true,
}

// unicodeTable replaces common smart punctuation, trademark, and bullet
// codepoints with ASCII-printable equivalents.
var unicodeTable = map[string]string{
	"‘": "'", "’": "'", // smart single quotes
	"“": "\"", "”": "\"", // smart double quotes
	"\u2013": "-", "\u2014": "-", // en/em dash
	"…": "...", // ellipsis
	"•": "*",   // bullet
	"®": "(R)", // registered
	"©": "(C)", // copyright
	"™": "(TM)", // trademark
	" ": " ",   // non-breaking space
}

var (
	runOfSpacesOrTabs = regexp.MustCompile(`[ \t]{2,}`)
	runOf3PlusNewline = regexp.MustCompile(`\n{3,}`)
)

// Clean applies every transform in the fixed order: HTML strip, escape
// conversion, Unicode canonicalization, whitespace normalization, trim.
// Running Clean twice on any input yields the same result (idempotence).
func Clean(s string) string {
	s = stripHTML(s)
	s = convertEscapes(s)
	s = canonicalizeUnicode(s)
	s = normalizeWhitespace(s)
	return strings.TrimSpace(s)
}

func stripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Malformed fragments still must not crash the pipeline; fall back
		// to the original text rather than losing the record.
		return s
	}
	var sb strings.Builder
	extractText(doc, &sb)
	return sb.String()
}

func extractText(n *html.Node, sb *strings.Builder) {
	switch {
	case n.Type == html.TextNode:
		sb.WriteString(n.Data)
	case n.Type == html.ElementNode && skipElements[n.Data]:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, sb)
	}
	if n.Type == html.ElementNode && spaceAfterElements[n.Data] {
		sb.WriteString(" ")
	}
}

// convertEscapes turns literal backslash escape sequences and stray carriage
// returns into real whitespace.
func convertEscapes(s string) string {
	s = strings.ReplaceAll(s, "\\r\\n", "\n")
	s = strings.ReplaceAll(s, "\\n", "\n")
	s = strings.ReplaceAll(s, "\\t", " ")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\t", " ")
	return s
}

func canonicalizeUnicode(s string) string {
	for from, to := range unicodeTable {
		s = strings.ReplaceAll(s, from, to)
	}
	return s
}

func normalizeWhitespace(s string) string {
	s = runOfSpacesOrTabs.ReplaceAllString(s, " ")
	s = runOf3PlusNewline.ReplaceAllString(s, "\n\n")
	return s
}

// CleanCompetitors walks every string-valued field of each CompetitorRecord
// (including nested comments) and replaces it with its cleaned form. Nil
// comment slices, non-string fields and sentiment labels are left untouched.
func CleanCompetitors(records []models.CompetitorRecord) []models.CompetitorRecord {
	out := make([]models.CompetitorRecord, len(records))
	for i, c := range records {
		c.Name = Clean(c.Name)
		c.Description = Clean(c.Description)
		c.Website = Clean(c.Website)
		c.EstimatedUsers = Clean(c.EstimatedUsers)
		c.EstimatedRevenue = Clean(c.EstimatedRevenue)
		c.PricingModel = Clean(c.PricingModel)
		c.LaunchDate = Clean(c.LaunchDate)
		c.FounderCEO = Clean(c.FounderCEO)
		c.Source = Clean(c.Source)
		c.SourceURL = Clean(c.SourceURL)
		if c.Extras != nil {
			cleanedExtras := make(map[string]string, len(c.Extras))
			for k, v := range c.Extras {
				cleanedExtras[k] = Clean(v)
			}
			c.Extras = cleanedExtras
		}
		if c.Comments != nil {
			cleanedComments := make([]models.CommentRecord, len(c.Comments))
			for j, cm := range c.Comments {
				cm.Text = Clean(cm.Text)
				cm.Author = Clean(cm.Author)
				cm.Date = Clean(cm.Date)
				cleanedComments[j] = cm
			}
			c.Comments = cleanedComments
		}
		out[i] = c
	}
	return out
}

// CleanFeedback walks every string-valued field of each FeedbackRecord other
// than its sentiment label.
func CleanFeedback(records []models.FeedbackRecord) []models.FeedbackRecord {
	out := make([]models.FeedbackRecord, len(records))
	for i, f := range records {
		f.Text = Clean(f.Text)
		f.Source = Clean(f.Source)
		f.SourceURL = Clean(f.SourceURL)
		if f.AuthorInfo != nil {
			cleanedInfo := make(map[string]string, len(f.AuthorInfo))
			for k, v := range f.AuthorInfo {
				cleanedInfo[k] = Clean(v)
			}
			f.AuthorInfo = cleanedInfo
		}
		out[i] = f
	}
	return out
}
