package radar

import "sort"

// MergeItems replaces the partition of existing items belonging to sourceName
// with fresh, leaving items from other sources untouched. An item that
// disappeared upstream between polls disappears from the merged set too.
func MergeItems(existing []ContentItem, sourceName string, fresh []ContentItem) []ContentItem {
	merged := make([]ContentItem, 0, len(existing)+len(fresh))
	for _, item := range existing {
		if item.SourceName != sourceName {
			merged = append(merged, item)
		}
	}
	return append(merged, fresh...)
}

// MergeAlerts replaces the partition keyed by sourceTag with fresh alerts and
// stable-sorts the result newest first.
func MergeAlerts(existing []Alert, sourceTag string, fresh []Alert) []Alert {
	merged := make([]Alert, 0, len(existing)+len(fresh))
	for _, alert := range existing {
		if alert.SourceTag != sourceTag {
			merged = append(merged, alert)
		}
	}
	merged = append(merged, fresh...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})
	return merged
}
