package configstore

import (
	"path/filepath"
	"testing"

	radar "radar-austral/internal/radar/domain"
)

func testDefaults() ([]radar.Source, radar.Settings) {
	sources := []radar.Source{
		{ID: "alpha", Name: "Alpha", Endpoint: "https://example.test/a", Format: radar.FormatAPI, Enabled: true, PollIntervalMinutes: 10},
		{ID: "beta", Name: "Beta", Endpoint: "https://example.test/b", Format: radar.FormatRSS, Enabled: true, PollIntervalMinutes: 30},
	}
	settings := radar.Settings{
		NotificationsEnabled: true,
		SoundEnabled:         true,
		DefaultPollMinutes:   15,
	}
	return sources, settings
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "radar.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return store
}

func TestLoadSeedsDefaultsOnFirstRun(t *testing.T) {
	store := openTestStore(t)
	defSources, defSettings := testDefaults()

	sources, settings, err := store.Load(defSources, defSettings)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sources) != 2 || sources[0].ID != "alpha" || sources[1].ID != "beta" {
		t.Fatalf("unexpected seeded sources: %+v", sources)
	}
	if !settings.NotificationsEnabled || settings.DefaultPollMinutes != 15 {
		t.Fatalf("unexpected seeded settings: %+v", settings)
	}
}

func TestEditsSurviveReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "radar.db")
	store, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defSources, defSettings := testDefaults()
	sources, settings, err := store.Load(defSources, defSettings)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	sources[0].Enabled = false
	sources[0].PollIntervalMinutes = 45
	if err := store.SaveSources(sources); err != nil {
		t.Fatalf("SaveSources: %v", err)
	}
	settings.PriorityOnly = true
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	reopened, err := Open(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	gotSources, gotSettings, err := reopened.Load(defSources, defSettings)
	if err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	if gotSources[0].Enabled || gotSources[0].PollIntervalMinutes != 45 {
		t.Fatalf("source edit lost: %+v", gotSources[0])
	}
	if !gotSettings.PriorityOnly {
		t.Fatalf("settings edit lost: %+v", gotSettings)
	}
}

func TestNewDefaultsAppendedWithoutClobbering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "radar.db")
	store, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defSources, defSettings := testDefaults()
	sources, _, err := store.Load(defSources, defSettings)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sources[1].Name = "Beta renombrada"
	if err := store.SaveSources(sources); err != nil {
		t.Fatalf("SaveSources: %v", err)
	}

	// A later release ships one more default source.
	expanded := append(defSources, radar.Source{
		ID: "gamma", Name: "Gamma", Endpoint: "https://example.test/c",
		Format: radar.FormatAPI, Enabled: true, PollIntervalMinutes: 20,
	})
	got, _, err := store.Load(expanded, defSettings)
	if err != nil {
		t.Fatalf("Load with expanded defaults: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(got))
	}
	if got[1].Name != "Beta renombrada" {
		t.Fatalf("user edit clobbered: %+v", got[1])
	}
	if got[2].ID != "gamma" {
		t.Fatalf("new default should be appended last: %+v", got[2])
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("", nil); err == nil {
		t.Fatalf("empty path should error")
	}
}
