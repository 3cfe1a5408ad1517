// Package enrich runs the metadata pipeline: resolve the source post URL,
// fetch the post, map its fields onto the catalog item, and make sure the
// author tag exists and is attached.
package enrich

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JustinTDCT/instameta/internal/instagram"
	"github.com/JustinTDCT/instameta/internal/plugin"
	"github.com/JustinTDCT/instameta/internal/sidecar"
	"github.com/JustinTDCT/instameta/internal/stash"
)

// HostAPI is the slice of the host GraphQL client the pipeline needs.
type HostAPI interface {
	FindItem(ctx context.Context, target plugin.TargetType, id string) (*stash.Item, error)
	UpdateItem(ctx context.Context, target plugin.TargetType, id string, updates map[string]interface{}) error
	EnsureTag(ctx context.Context, name string) (string, error)
}

// PostFetcher retrieves post metadata for a shortcode.
type PostFetcher interface {
	FetchPost(ctx context.Context, shortcode, fallbackURL string) (*instagram.Post, error)
}

type Enricher struct {
	stash HostAPI
	ig    PostFetcher
	log   *zap.Logger
}

func New(host HostAPI, fetcher PostFetcher, logger *zap.Logger) *Enricher {
	return &Enricher{stash: host, ig: fetcher, log: logger}
}

// Options are the per-invocation arguments.
type Options struct {
	// URL is an explicit post URL; when empty the item URL and then sidecar
	// files are consulted.
	URL string
	// Overwrite replaces existing title/date/url instead of filling blanks.
	Overwrite bool
}

// Run enriches one Scene or Image and returns a one-line summary.
func (e *Enricher) Run(ctx context.Context, target plugin.TargetType, id string, opts Options) (string, error) {
	item, err := e.stash.FindItem(ctx, target, id)
	if err != nil {
		return "", err
	}
	if item == nil {
		return "", fmt.Errorf("%s %s not found", target, id)
	}

	sourceURL := opts.URL
	if sourceURL == "" {
		sourceURL = item.URL
	}
	if sourceURL == "" {
		if sc := sidecar.Find(item.FilePaths()); sc != nil {
			sourceURL = sc.SourceURL()
			e.log.Debug("resolved URL from sidecar", zap.String("url", sourceURL))
		}
	}
	if sourceURL == "" {
		return "", fmt.Errorf("no Instagram URL found (provide args.url or ensure item.url/sidecar contains it)")
	}

	shortcode := instagram.ExtractShortcode(sourceURL)
	if shortcode == "" {
		return "", fmt.Errorf("could not extract shortcode from URL: %s", sourceURL)
	}
	e.log.Debug("fetching post",
		zap.String("shortcode", shortcode),
		zap.String("target", string(target)),
		zap.String("id", id))

	post, err := e.ig.FetchPost(ctx, shortcode, sourceURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch Instagram metadata (check ig_sessionid or URL): %w", err)
	}

	updates := map[string]interface{}{}
	if opts.Overwrite || item.Title == "" {
		updates["title"] = post.Caption
	}
	if d := post.DateString(); d != "" && (opts.Overwrite || item.Date == "") {
		updates["date"] = d
	}
	if opts.Overwrite || item.URL == "" {
		updates["url"] = post.Permalink
	}

	if post.Username != "" {
		tagID, err := e.stash.EnsureTag(ctx, post.Username)
		if err != nil {
			return "", err
		}
		ids := item.TagIDs()
		if !containsString(ids, tagID) {
			ids = append(ids, tagID)
		}
		updates["tag_ids"] = ids
	}

	if err := e.stash.UpdateItem(ctx, target, id, updates); err != nil {
		return "", err
	}

	return summarize(target, id, post, updates), nil
}

func summarize(target plugin.TargetType, id string, post *instagram.Post, updates map[string]interface{}) string {
	titleState := "kept"
	if _, ok := updates["title"]; ok {
		titleState = "set"
	}
	date := post.DateString()
	if date == "" {
		date = "n/a"
	}
	tag := post.Username
	if tag == "" {
		tag = "n/a"
	}
	return fmt.Sprintf("Updated Instagram metadata: type=%s, id=%s, title=%s, date=%s, url=%s, tag=%s",
		target, id, titleState, date, post.Permalink, tag)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
