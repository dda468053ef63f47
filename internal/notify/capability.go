package notify

import "context"

// PermissionState mirrors the platform notification permission the engine
// must check before delivering.
type PermissionState string

const (
	PermissionGranted      PermissionState = "granted"
	PermissionDenied       PermissionState = "denied"
	PermissionNotRequested PermissionState = "not-requested"
)

// Intensity selects the audio cue character: a richer multi-tone chime for
// critical alerts, a single soft tone otherwise.
type Intensity string

const (
	IntensityNormal   Intensity = "normal"
	IntensityCritical Intensity = "critical"
)

// AlertCapability delivers one notification. Calls are skipped by the engine
// unless Permission reports granted; errors are logged and swallowed.
type AlertCapability interface {
	Permission() PermissionState
	Notify(ctx context.Context, title, body string) error
}

// AudioCapability plays a notification cue. It must tolerate being invoked
// before any client can play audio; such failures are ignored.
type AudioCapability interface {
	Chime(ctx context.Context, intensity Intensity) error
}
