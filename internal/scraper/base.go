// Package scraper extracts job postings from a results page snapshot.
// Document order is kept and relative links are resolved against the page URL.
package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-jobapply-automation/internal/models"
)

// Locators describe a job entry: an anchor that contains a title element.
// Both are CSS selectors.
type Locators struct {
	Link  string
	Title string
}

// WaitSelector is the playwright selector that matches the same anchors,
// used to wait until at least one entry is on the page.
func (l Locators) WaitSelector() string {
	return fmt.Sprintf("%s:has(%s)", l.Link, l.Title)
}

// ExtractPostings parses html and returns every (url, title) pair in document order.
func ExtractPostings(html, pageURL string, loc Locators) ([]models.JobPosting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page url %q: %w", pageURL, err)
	}

	var postings []models.JobPosting
	doc.Find(loc.Link).Has(loc.Title).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" || strings.HasPrefix(href, "javascript:") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}

		title := strings.Join(strings.Fields(a.Find(loc.Title).First().Text()), " ")
		postings = append(postings, models.JobPosting{
			URL:   base.ResolveReference(ref).String(),
			Title: title,
		})
	})
	return postings, nil
}
