package domain

import "errors"

// ErrInvalidSettings is returned when a settings update is out of range.
var ErrInvalidSettings = errors.New("invalid user settings")

// UserSettings is the single-tenant presentation preferences record.
type UserSettings struct {
	Theme        string  `json:"theme"`
	AudioEnabled bool    `json:"audio_enabled"`
	AudioRate    float64 `json:"audio_rate"`
	AudioPitch   float64 `json:"audio_pitch"`
	Autoplay     bool    `json:"autoplay"`
	Language     string  `json:"language"` // Native-language code for glosses
}

// DefaultUserSettings returns the settings used to seed the singleton row.
func DefaultUserSettings() *UserSettings {
	return &UserSettings{
		Theme:        "light",
		AudioEnabled: true,
		AudioRate:    1.0,
		AudioPitch:   1.0,
		Autoplay:     false,
		Language:     "vi",
	}
}

// Validate checks the settings ranges.
func (s *UserSettings) Validate() error {
	if s.Theme != "light" && s.Theme != "dark" {
		return ErrInvalidSettings
	}

	if s.AudioRate < 0.5 || s.AudioRate > 2.0 {
		return ErrInvalidSettings
	}

	if s.AudioPitch < 0.5 || s.AudioPitch > 2.0 {
		return ErrInvalidSettings
	}

	if s.Language == "" {
		return ErrInvalidSettings
	}

	return nil
}
