package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconError    = "❌"
	IconDone     = "✓"
	IconQueued   = "⏳"
	IconActive   = "▶"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
)

// Layout sizing (entry rows / lists)
const (
	ThumbDisplayWidth  float32 = 120
	ThumbDisplayHeight float32 = 68

	DurationLabelWidth float32 = 64
	StatusLabelWidth   float32 = 110
)

// Window sizing
const (
	WindowDefaultWidth  float32 = 860
	WindowDefaultHeight float32 = 640

	SettingsDialogWidth  float32 = 520
	SettingsDialogHeight float32 = 460
)
