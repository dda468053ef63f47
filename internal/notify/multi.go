package notify

import "context"

// MultiAlerter fans one notification out to several alert capabilities.
type MultiAlerter struct {
	alerters []AlertCapability
}

// NewMultiAlerter constructs a MultiAlerter.
func NewMultiAlerter(alerters ...AlertCapability) *MultiAlerter {
	return &MultiAlerter{alerters: alerters}
}

// Permission reports granted when at least one target would accept delivery.
func (m *MultiAlerter) Permission() PermissionState {
	if m == nil {
		return PermissionNotRequested
	}
	state := PermissionNotRequested
	for _, alerter := range m.alerters {
		switch alerter.Permission() {
		case PermissionGranted:
			return PermissionGranted
		case PermissionDenied:
			state = PermissionDenied
		}
	}
	return state
}

// Notify forwards to every granted target; the first error is returned after
// all targets have been attempted.
func (m *MultiAlerter) Notify(ctx context.Context, title, body string) error {
	if m == nil {
		return nil
	}
	var firstErr error
	for _, alerter := range m.alerters {
		if alerter.Permission() != PermissionGranted {
			continue
		}
		if err := alerter.Notify(ctx, title, body); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
