package adapters

import (
	"encoding/xml"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/bwmarrin/snowflake"

	radar "radar-austral/internal/radar/domain"
)

var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
}

type rssDocument struct {
	Channel struct {
		Items []rssEntry `xml:"item"`
	} `xml:"channel"`
}

type rssEntry struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
}

// rssParser holds what both RSS-backed adapters share: XML decoding, the
// guid fallback and pubDate coercion.
type rssParser struct {
	ids *snowflake.Node
	now func() time.Time
}

func (p rssParser) parse(payload []byte) ([]rssEntry, error) {
	var doc rssDocument
	if err := xml.Unmarshal(payload, &doc); err != nil {
		return nil, err
	}
	return doc.Channel.Items, nil
}

// entryID returns the upstream guid, or a process-unique synthetic id when
// the feed omits one. Synthetic ids never dedup across restarts.
func (p rssParser) entryID(entry rssEntry) string {
	if guid := strings.TrimSpace(entry.GUID); guid != "" {
		return guid
	}
	if link := strings.TrimSpace(entry.Link); link != "" {
		return link
	}
	return "rss-" + p.ids.Generate().String()
}

func (p rssParser) entryTime(entry rssEntry, now time.Time) time.Time {
	raw := strings.TrimSpace(entry.PubDate)
	for _, layout := range pubDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC()
		}
	}
	return now
}

// RSSAdapter normalizes a generic RSS/XML feed into content items, converting
// HTML descriptions to markdown text.
type RSSAdapter struct {
	rssParser
	converter *md.Converter
}

// NewRSSAdapter constructs the adapter.
func NewRSSAdapter(ids *snowflake.Node) *RSSAdapter {
	return &RSSAdapter{
		rssParser: rssParser{ids: ids, now: func() time.Time { return time.Now().UTC() }},
		converter: md.NewConverter("", true, nil),
	}
}

// Adapt parses the feed into items.
func (a *RSSAdapter) Adapt(src radar.Source, payload []byte) (Result, error) {
	entries, err := a.parse(payload)
	if err != nil {
		return Result{}, err
	}

	now := a.now()
	items := make([]radar.ContentItem, 0, len(entries))
	for _, entry := range entries {
		body := entry.Description
		if markdown, err := a.converter.ConvertString(body); err == nil {
			body = strings.TrimSpace(markdown)
		}
		items = append(items, radar.ContentItem{
			ID:         a.entryID(entry),
			SourceName: src.Name,
			Headline:   defaultString(strings.TrimSpace(entry.Title), "(sin titulo)"),
			Body:       body,
			Timestamp:  a.entryTime(entry, now),
			Category:   defaultString(src.CategoryHint, radar.CategoryCronicas),
			URL:        strings.TrimSpace(entry.Link),
		})
	}
	return Result{Items: items}, nil
}

// MaritimeAdapter normalizes naval bulletin RSS feeds into maritime alerts.
// Bulletins whose title contains "alerta" are HIGH, everything else INFO.
type MaritimeAdapter struct {
	rssParser
}

// NewMaritimeAdapter constructs the adapter.
func NewMaritimeAdapter(ids *snowflake.Node) *MaritimeAdapter {
	return &MaritimeAdapter{
		rssParser: rssParser{ids: ids, now: func() time.Time { return time.Now().UTC() }},
	}
}

// Adapt parses the feed into alerts.
func (a *MaritimeAdapter) Adapt(src radar.Source, payload []byte) (Result, error) {
	entries, err := a.parse(payload)
	if err != nil {
		return Result{}, err
	}

	now := a.now()
	alerts := make([]radar.Alert, 0, len(entries))
	for _, entry := range entries {
		title := defaultString(strings.TrimSpace(entry.Title), "Boletin maritimo")
		severity := radar.SeverityInfo
		if strings.Contains(strings.ToLower(title), "alerta") {
			severity = radar.SeverityHigh
		}
		alerts = append(alerts, radar.Alert{
			ID:          a.entryID(entry),
			Title:       title,
			Description: strings.TrimSpace(entry.Description),
			Severity:    severity,
			Timestamp:   a.entryTime(entry, now),
			Kind:        radar.KindMaritime,
			SourceTag:   src.ID,
		})
	}
	return Result{Alerts: alerts}, nil
}
