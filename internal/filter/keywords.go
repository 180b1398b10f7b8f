package filter

import (
	"go-jobapply-automation/internal/models"
)

// Filter keeps the postings whose title matches, in their original order.
func (m *Matcher) Filter(postings []models.JobPosting) []models.JobPosting {
	var matched []models.JobPosting
	for _, p := range postings {
		if m.Matches(p.Title) {
			matched = append(matched, p)
		}
	}
	return matched
}
