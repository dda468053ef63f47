package adapters

import (
	"encoding/json"
	"time"

	radar "radar-austral/internal/radar/domain"
)

// RedditAdapter normalizes a subreddit "new" listing into content items.
type RedditAdapter struct {
	now func() time.Time
}

// NewRedditAdapter constructs the adapter.
func NewRedditAdapter() *RedditAdapter {
	return &RedditAdapter{now: func() time.Time { return time.Now().UTC() }}
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	SelfText   string  `json:"selftext"`
	CreatedUTC float64 `json:"created_utc"`
	Permalink  string  `json:"permalink"`
}

// Adapt parses the listing. Posts missing a title or timestamp are coerced,
// not dropped.
func (a *RedditAdapter) Adapt(src radar.Source, payload []byte) (Result, error) {
	var listing redditListing
	if err := json.Unmarshal(payload, &listing); err != nil {
		return Result{}, err
	}

	now := a.now()
	items := make([]radar.ContentItem, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		post := child.Data
		if post.ID == "" && post.Title == "" {
			continue
		}
		url := ""
		if post.Permalink != "" {
			url = "https://reddit.com" + post.Permalink
		}
		items = append(items, radar.ContentItem{
			ID:         defaultString(post.ID, post.Permalink),
			SourceName: src.Name,
			Headline:   defaultString(post.Title, "(sin titulo)"),
			Body:       post.SelfText,
			Timestamp:  unixSeconds(post.CreatedUTC, now),
			Category:   defaultString(src.CategoryHint, radar.CategoryCronicas),
			URL:        url,
		})
	}
	return Result{Items: items}, nil
}
