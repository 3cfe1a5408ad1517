// Package instagram fetches public post metadata from Instagram's web JSON
// endpoint and parses the two payload shapes it is known to return.
package instagram

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// shortcodeRe matches the post identifier in /p/, /reel/ and /tv/ URLs.
var shortcodeRe = regexp.MustCompile(`(?:instagram\.com/(?:reel|p|tv)/|/reel/|/p/|/tv/)([A-Za-z0-9_-]{5,})`)

// ExtractShortcode pulls the post shortcode out of an Instagram URL.
// Returns "" when the URL does not look like a post link.
func ExtractShortcode(url string) string {
	if url == "" {
		return ""
	}
	m := shortcodeRe.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// Permalink builds the canonical post URL for a shortcode.
func Permalink(shortcode string) string {
	return fmt.Sprintf("https://www.instagram.com/p/%s/", shortcode)
}

// Post is the metadata extracted from a post payload.
type Post struct {
	Caption   string
	TakenAt   time.Time // zero when the payload carried no timestamp
	Username  string
	Shortcode string
	Permalink string
}

// DateString formats the post date as YYYY-MM-DD in UTC, or "" when unknown.
func (p *Post) DateString() string {
	if p.TakenAt.IsZero() {
		return ""
	}
	return p.TakenAt.UTC().Format("2006-01-02")
}

type captionNode struct {
	Text string `json:"text"`
}

type media struct {
	Shortcode          string `json:"shortcode"`
	TakenAtTimestamp   int64  `json:"taken_at_timestamp"`
	TakenAt            int64  `json:"taken_at"`
	EdgeMediaToCaption struct {
		Edges []struct {
			Node captionNode `json:"node"`
		} `json:"edges"`
	} `json:"edge_media_to_caption"`
	// caption is an object in app-style payloads and a list in some legacy
	// ones, so it has to be decoded per shape.
	Caption json.RawMessage `json:"caption"`
	Owner   *struct {
		Username string `json:"username"`
	} `json:"owner"`
	User *struct {
		Username string `json:"username"`
	} `json:"user"`
}

type postPayload struct {
	Graphql struct {
		ShortcodeMedia *media `json:"shortcode_media"`
	} `json:"graphql"`
	Items []media `json:"items"`
}

func (m *media) captionText() string {
	if len(m.EdgeMediaToCaption.Edges) > 0 {
		return m.EdgeMediaToCaption.Edges[0].Node.Text
	}
	if len(m.Caption) == 0 {
		return ""
	}
	var obj captionNode
	if err := json.Unmarshal(m.Caption, &obj); err == nil && obj.Text != "" {
		return obj.Text
	}
	var list []captionNode
	if err := json.Unmarshal(m.Caption, &list); err == nil && len(list) > 0 {
		return list[0].Text
	}
	return ""
}

func (m *media) username() string {
	if m.Owner != nil && m.Owner.Username != "" {
		return m.Owner.Username
	}
	if m.User != nil {
		return m.User.Username
	}
	return ""
}

func (m *media) timestamp() int64 {
	if m.TakenAtTimestamp != 0 {
		return m.TakenAtTimestamp
	}
	return m.TakenAt
}

// ParsePost extracts post metadata from a raw endpoint payload. fallbackURL
// is used as the permalink when the payload lacks its own shortcode.
func ParsePost(data []byte, fallbackURL string) (*Post, error) {
	var payload postPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode post payload: %w", err)
	}

	var m *media
	switch {
	case payload.Graphql.ShortcodeMedia != nil:
		m = payload.Graphql.ShortcodeMedia
	case len(payload.Items) > 0:
		m = &payload.Items[0]
	default:
		return nil, fmt.Errorf("payload contains no post media")
	}

	post := &Post{
		Caption:   m.captionText(),
		Username:  m.username(),
		Shortcode: m.Shortcode,
	}
	if ts := m.timestamp(); ts > 0 {
		post.TakenAt = time.Unix(ts, 0).UTC()
	}
	if m.Shortcode != "" {
		post.Permalink = Permalink(m.Shortcode)
	} else {
		post.Permalink = fallbackURL
	}

	if post.Caption == "" && post.TakenAt.IsZero() && post.Username == "" && post.Permalink == "" {
		return nil, fmt.Errorf("payload contained none of the expected fields")
	}
	return post, nil
}
