// Package sidecar locates companion metadata files written by downloaders
// (yt-dlp and friends) next to media files and extracts the source post URL
// from them.
package sidecar

import (
	"encoding/json"
	"os"

	"github.com/JustinTDCT/instameta/internal/instagram"
)

// suffixes are appended to the full media filename, extension included:
// clip.mp4 -> clip.mp4.info.json, clip.mp4.json.
var suffixes = []string{".info.json", ".json"}

// Data is the subset of sidecar fields the plugin cares about.
type Data struct {
	WebpageURL  string `json:"webpage_url"`
	Permalink   string `json:"permalink"`
	URL         string `json:"url"`
	Shortcode   string `json:"shortcode"`
	ShortcodeID string `json:"shortcode_id"`
}

// Find probes each media path for a readable sidecar and returns the first
// one that decodes. Unreadable or malformed candidates are skipped.
func Find(paths []string) *Data {
	for _, p := range paths {
		for _, suffix := range suffixes {
			raw, err := os.ReadFile(p + suffix)
			if err != nil {
				continue
			}
			var d Data
			if err := json.Unmarshal(raw, &d); err != nil {
				continue
			}
			return &d
		}
	}
	return nil
}

// SourceURL returns the post URL recorded in the sidecar, rebuilding it from
// the shortcode when no URL field is present.
func (d *Data) SourceURL() string {
	for _, u := range []string{d.WebpageURL, d.Permalink, d.URL} {
		if u != "" {
			return u
		}
	}
	shortcode := d.Shortcode
	if shortcode == "" {
		shortcode = d.ShortcodeID
	}
	if shortcode != "" {
		return instagram.Permalink(shortcode)
	}
	return ""
}
