package radar

import "errors"

// Format tags the response shape of a source endpoint.
const (
	FormatAPI    = "api"
	FormatRSS    = "rss"
	FormatSystem = "system"
)

// Category hints where normalized items belong in the presentation feed.
const (
	CategoryCronicas    = "cronicas"
	CategoryValores     = "valores"
	CategoryTerra       = "terra"
	CategoryVibraciones = "vibraciones"
)

// ErrUnknownSource is returned when a patch targets a source id that is not registered.
var ErrUnknownSource = errors.New("radar: unknown source")

// Source is one configured external feed the engine polls.
type Source struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Endpoint            string `json:"endpoint"`
	Format              string `json:"format"`
	Enabled             bool   `json:"enabled"`
	CategoryHint        string `json:"category_hint"`
	PollIntervalMinutes int    `json:"poll_interval_minutes"`
}

// SourcePatch carries the mutable subset of a source. Nil fields are left untouched.
type SourcePatch struct {
	Name                *string `json:"name,omitempty"`
	Enabled             *bool   `json:"enabled,omitempty"`
	PollIntervalMinutes *int    `json:"poll_interval_minutes,omitempty"`
}

// Apply folds the patch into the source. Interval values below one minute are ignored.
func (p SourcePatch) Apply(src Source) Source {
	if p.Name != nil && *p.Name != "" {
		src.Name = *p.Name
	}
	if p.Enabled != nil {
		src.Enabled = *p.Enabled
	}
	if p.PollIntervalMinutes != nil && *p.PollIntervalMinutes > 0 {
		src.PollIntervalMinutes = *p.PollIntervalMinutes
	}
	return src
}

// Settings is the user-editable engine configuration snapshot.
type Settings struct {
	NotificationsEnabled bool `json:"notifications_enabled"`
	PriorityOnly         bool `json:"priority_only"`
	SoundEnabled         bool `json:"sound_enabled"`
	DefaultPollMinutes   int  `json:"default_poll_minutes"`
}
