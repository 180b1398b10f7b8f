package models

// JobPosting is one entry scraped from a results page.
type JobPosting struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}
