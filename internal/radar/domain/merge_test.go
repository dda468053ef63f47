package radar

import (
	"testing"
	"time"
)

func item(id, source string) ContentItem {
	return ContentItem{ID: id, SourceName: source, Headline: id}
}

func TestMergeItemsReplacesOnlyOwnPartition(t *testing.T) {
	existing := []ContentItem{item("a1", "A"), item("a2", "A"), item("b1", "B")}

	merged := MergeItems(existing, "A", []ContentItem{item("a3", "A")})

	if len(merged) != 2 {
		t.Fatalf("expected 2 items, got %d", len(merged))
	}
	ids := map[string]bool{}
	for _, it := range merged {
		ids[it.ID] = true
	}
	if !ids["b1"] || !ids["a3"] {
		t.Fatalf("expected b1 and a3 to survive, got %v", ids)
	}
}

func TestMergeItemsEmptyFetchClearsPartition(t *testing.T) {
	existing := []ContentItem{item("a1", "A"), item("b1", "B"), item("b2", "B")}

	merged := MergeItems(existing, "A", nil)

	if len(merged) != 2 {
		t.Fatalf("expected B items only, got %d", len(merged))
	}
	for _, it := range merged {
		if it.SourceName != "B" {
			t.Fatalf("unexpected item %s from source %s", it.ID, it.SourceName)
		}
	}
}

func TestMergeItemsIdempotentRefetch(t *testing.T) {
	fresh := []ContentItem{item("a1", "A"), item("a2", "A")}

	once := MergeItems(nil, "A", fresh)
	twice := MergeItems(once, "A", fresh)

	if len(once) != len(twice) {
		t.Fatalf("re-fetch duplicated items: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Fatalf("item order changed at %d: %s vs %s", i, once[i].ID, twice[i].ID)
		}
	}
}

func TestMergeAlertsSortsNewestFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	existing := []Alert{
		{ID: "w1", SourceTag: "weather", Timestamp: base.Add(2 * time.Hour)},
	}
	fresh := []Alert{
		{ID: "s1", SourceTag: "seismic", Timestamp: base.Add(3 * time.Hour)},
		{ID: "s2", SourceTag: "seismic", Timestamp: base.Add(1 * time.Hour)},
	}

	merged := MergeAlerts(existing, "seismic", fresh)

	want := []string{"s1", "w1", "s2"}
	if len(merged) != len(want) {
		t.Fatalf("expected %d alerts, got %d", len(want), len(merged))
	}
	for i, id := range want {
		if merged[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, merged[i].ID)
		}
	}
}

func TestMergeAlertsDropsStaleTagEntries(t *testing.T) {
	existing := []Alert{
		{ID: "s-old", SourceTag: "seismic"},
		{ID: "m1", SourceTag: "maritime"},
	}

	merged := MergeAlerts(existing, "seismic", []Alert{{ID: "s-new", SourceTag: "seismic"}})

	for _, a := range merged {
		if a.ID == "s-old" {
			t.Fatal("stale seismic alert survived the merge")
		}
	}
	if len(merged) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(merged))
	}
}

func TestSourcePatchApply(t *testing.T) {
	src := Source{ID: "x", Name: "X", Enabled: true, PollIntervalMinutes: 15}

	name := "Renamed"
	enabled := false
	interval := 0
	patched := SourcePatch{Name: &name, Enabled: &enabled, PollIntervalMinutes: &interval}.Apply(src)

	if patched.Name != "Renamed" || patched.Enabled {
		t.Fatalf("patch not applied: %+v", patched)
	}
	if patched.PollIntervalMinutes != 15 {
		t.Fatalf("zero interval should be ignored, got %d", patched.PollIntervalMinutes)
	}
}
