package enrich

import (
	"github.com/JustinTDCT/instameta/internal/instagram"
)

// ScrapedTag matches the host's scraped-tag fragment shape.
type ScrapedTag struct {
	Name string `json:"Name"`
}

// ScrapedItem is the fragment the host expects from a URL scraper. Only
// fields that were actually found are emitted.
type ScrapedItem struct {
	Title string       `json:"Title,omitempty"`
	Date  string       `json:"Date,omitempty"`
	URL   string       `json:"URL,omitempty"`
	Tags  []ScrapedTag `json:"Tags,omitempty"`
}

// Fragment maps a fetched post onto the scraper fragment.
func Fragment(post *instagram.Post) ScrapedItem {
	item := ScrapedItem{
		Title: post.Caption,
		Date:  post.DateString(),
		URL:   post.Permalink,
	}
	if post.Username != "" {
		item.Tags = []ScrapedTag{{Name: post.Username}}
	}
	return item
}
