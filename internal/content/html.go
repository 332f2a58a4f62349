package content

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// ScrubHTML cleans up empty inline elements and runs of <br> tags left behind
// by Markdown rendering. Should be applied after sanitization.
func ScrubHTML() TransformerFunc {
	return func(input []byte) ([]byte, error) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(input))
		if err != nil {
			return nil, fmt.Errorf("failed to parse HTML: %w", err)
		}
		body := doc.Find("body")
		if body.Length() == 0 {
			body = doc.Selection
		}
		removeEmptyInlineElements(body)
		collapseExcessiveBRs(body)
		out, err := body.Html()
		if err != nil {
			return nil, fmt.Errorf("failed to render scrubbed HTML: %w", err)
		}
		return []byte(out), nil
	}
}

const (
	// maxConsecutiveBRs is the maximum number of consecutive <br> elements
	// allowed before collapsing occurs.
	maxConsecutiveBRs = 2
)

// checkboxType matches the only input type task lists render.
var checkboxType = regexp.MustCompile(`^checkbox$`)

// SanitizeHTML applies sanitization rules to HTML input, stripping unsupported
// tags and attributes.
func SanitizeHTML() TransformerFunc {
	htmlSanitizer := sanitizer()
	return func(input []byte) ([]byte, error) {
		return htmlSanitizer.SanitizeBytes(input), nil
	}
}

// sanitizer is a narrowed [bluemonday.UGCPolicy] for short descriptions:
//
//   - Target _blank and noreferrer for links
//   - No headings, tables, figures or images
//   - Disabled checkboxes for task list items
func sanitizer() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()

	policy.AllowStandardURLs()
	policy.RequireNoReferrerOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	policy.AllowElements(
		"b",
		"blockquote",
		"br",
		"code",
		"del",
		"em",
		"hr",
		"i",
		"mark",
		"p",
		"pre",
		"s",
		"strong",
		"sub",
		"sup",
	)

	policy.AllowAttrs("href").
		OnElements("a")

	policy.AllowAttrs("type").
		Matching(checkboxType).
		OnElements("input")
	policy.AllowAttrs("checked", "disabled").
		Matching(regexp.MustCompile(`^(|checked|disabled)$`)).
		OnElements("input")

	policy.AllowLists()

	return policy
}

var (
	inlineElements = []string{
		"a", "b", "code", "del", "em", "i", "mark", "s", "span", "strong",
		"sub", "sup",
	}
	inlineSelector = strings.Join(inlineElements, ", ")
)

// removeEmptyInlineElements removes inline elements that have no text content
// and no meaningful children, like <em></em> or <span>   </span>.
func removeEmptyInlineElements(sel *goquery.Selection) {
	// Removing an element may expose its parent as newly empty.
	for {
		removed := false
		sel.Find(inlineSelector).Each(func(_ int, el *goquery.Selection) {
			if strings.TrimSpace(el.Text()) == "" && el.Children().Length() == 0 {
				el.Remove()
				removed = true
			}
		})
		if !removed {
			break
		}
	}
}

// collapseExcessiveBRs finds runs of 3 or more consecutive <br> elements and
// reduces them to 2.
func collapseExcessiveBRs(sel *goquery.Selection) {
	sel.Find("br").Each(func(_ int, br *goquery.Selection) {
		node := br.Get(0)
		// Already removed as part of an earlier run.
		if node.Parent == nil {
			return
		}

		count := 1
		for sib := node.NextSibling; sib != nil; {
			next := sib.NextSibling
			if sib.Type == html.TextNode && strings.TrimSpace(sib.Data) == "" {
				sib = next
				continue
			}
			if sib.Type == html.ElementNode && sib.Data == "br" {
				count++
				if count > maxConsecutiveBRs {
					sib.Parent.RemoveChild(sib)
				}
				sib = next
				continue
			}
			break
		}
	})
}
