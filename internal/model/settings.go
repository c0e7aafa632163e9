package model

import (
	"encoding/json"
	"strings"
)

const (
	DefaultListID         = "default"
	DefaultListName       = "My tasks"
	NewListName           = "New list"
	DefaultLabelID        = "general"
	DefaultLabelName      = "General"
	DefaultGlobalShortcut = "Shift+Space"
	DefaultLanguage       = "auto"
)

type SortMode string

const (
	SortRecent  SortMode = "recent"
	SortOldest  SortMode = "oldest"
	SortTitle   SortMode = "title"
	SortDueDate SortMode = "dueDate"
	SortManual  SortMode = "manual"
)

func (m SortMode) IsValid() bool {
	switch m {
	case SortRecent, SortOldest, SortTitle, SortDueDate, SortManual:
		return true
	default:
		return false
	}
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

type ThemeMode string

const (
	ThemeSystem ThemeMode = "system"
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
)

func (m ThemeMode) IsValid() bool {
	switch m {
	case ThemeSystem, ThemeLight, ThemeDark:
		return true
	default:
		return false
	}
}

var supportedLanguages = map[string]bool{
	"auto": true,
	"en":   true,
	"fr":   true,
	"es":   true,
	"zh":   true,
	"hi":   true,
}

func IsSupportedLanguage(tag string) bool {
	return supportedLanguages[tag]
}

type SoundSettings struct {
	Enabled    bool `json:"enabled"`
	OnCreate   bool `json:"onCreate"`
	OnComplete bool `json:"onComplete"`
	OnDelete   bool `json:"onDelete"`
}

type TodoList struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Icon      *string `json:"icon,omitempty"`
	CreatedAt int64   `json:"createdAt"`
}

type Settings struct {
	SortMode        SortMode      `json:"sortMode"`
	SortOrder       SortOrder     `json:"sortOrder"`
	AutoCloseOnBlur bool          `json:"autoCloseOnBlur"`
	ActiveListID    string        `json:"activeListId"`
	Lists           []TodoList    `json:"lists"`
	Labels          []Label       `json:"labels"`
	GlobalShortcut  string        `json:"globalShortcut"`
	ThemeMode       ThemeMode     `json:"themeMode"`
	EnableAutostart bool          `json:"enableAutostart"`
	SoundSettings   SoundSettings `json:"soundSettings"`
	Language        string        `json:"language"`
}

func DefaultSettings() Settings {
	return Settings{
		SortMode:        SortRecent,
		SortOrder:       SortDesc,
		AutoCloseOnBlur: true,
		ActiveListID:    DefaultListID,
		Lists:           []TodoList{DefaultList(0)},
		Labels:          []Label{DefaultLabel()},
		GlobalShortcut:  DefaultGlobalShortcut,
		ThemeMode:       ThemeSystem,
		EnableAutostart: true,
		SoundSettings: SoundSettings{
			Enabled:    true,
			OnCreate:   true,
			OnComplete: true,
			OnDelete:   true,
		},
		Language: DefaultLanguage,
	}
}

func DefaultList(createdAt int64) TodoList {
	return TodoList{ID: DefaultListID, Name: DefaultListName, CreatedAt: createdAt}
}

// UnmarshalJSON fills keys missing from older snapshots with their defaults.
func (s *Settings) UnmarshalJSON(b []byte) error {
	type plain Settings
	defaults := DefaultSettings()
	decoded := plain(defaults)
	decoded.Lists = nil
	decoded.Labels = nil
	if err := json.Unmarshal(b, &decoded); err != nil {
		return err
	}
	if decoded.Lists == nil {
		decoded.Lists = defaults.Lists
	}
	if decoded.Labels == nil {
		decoded.Labels = defaults.Labels
	}
	*s = Settings(decoded)
	return nil
}

func (s Settings) HasList(id string) bool {
	_, ok := s.List(id)
	return ok
}

func (s Settings) List(id string) (TodoList, bool) {
	for _, l := range s.Lists {
		if l.ID == id {
			return l, true
		}
	}
	return TodoList{}, false
}

func (s Settings) HasLabel(id string) bool {
	for _, l := range s.Labels {
		if l.ID == id {
			return true
		}
	}
	return false
}

func (s Settings) ListIDs() map[string]bool {
	out := make(map[string]bool, len(s.Lists))
	for _, l := range s.Lists {
		out[l.ID] = true
	}
	return out
}

func (s Settings) LabelIDs() map[string]bool {
	out := make(map[string]bool, len(s.Labels))
	for _, l := range s.Labels {
		out[l.ID] = true
	}
	return out
}

func (s Settings) Clone() Settings {
	out := s
	if s.Lists != nil {
		out.Lists = make([]TodoList, len(s.Lists))
		for i, l := range s.Lists {
			l.Icon = cloneString(l.Icon)
			out.Lists[i] = l
		}
	}
	if s.Labels != nil {
		out.Labels = make([]Label, len(s.Labels))
		copy(out.Labels, s.Labels)
	}
	return out
}

// TrimmedOrNil returns nil for blank input so optional text never stores whitespace.
func TrimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
