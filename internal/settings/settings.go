// Package settings persists the device-local app settings under the
// same keys the mobile clients use.  All reads fail open: an absent key
// or malformed JSON yields the defaults, never an error, so the app
// always starts with a usable configuration.  Writes propagate errors.
package settings

import (
	"encoding/json"

	"github.com/seckc/community-api/internal/localstore"
)

// Device-storage keys, shared with the mobile clients.
const (
	NotificationsKey = "seckc-notifications"
	AppSettingsKey   = "seckc-app-settings"
	ThemeKey         = "seckc-theme"
)

// ThemeMode enumerates the recognized theme values.
type ThemeMode string

const (
	ThemeAuto  ThemeMode = "auto"
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// ValidTheme reports whether m is a recognized theme mode.
func ValidTheme(m ThemeMode) bool {
	return m == ThemeAuto || m == ThemeLight || m == ThemeDark
}

// NotificationPrefs holds the per-device notification switches.  Each
// field corresponds to one notification kind; there are no free-form
// entries.
type NotificationPrefs struct {
	Events         bool `json:"events"`
	NewEvents      bool `json:"new_events"`
	Social         bool `json:"social"`
	SecurityAlerts bool `json:"security_alerts"`
	Newsletter     bool `json:"newsletter"`
}

// DefaultNotificationPrefs returns the switches a fresh install gets.
func DefaultNotificationPrefs() NotificationPrefs {
	return NotificationPrefs{Events: true, NewEvents: true, SecurityAlerts: true}
}

// AppSettings holds the non-notification device settings.
type AppSettings struct {
	Theme          ThemeMode `json:"theme"`
	HapticFeedback bool      `json:"haptic_feedback"`
	AutoRefresh    bool      `json:"auto_refresh"`
}

// DefaultAppSettings returns the settings a fresh install gets.
func DefaultAppSettings() AppSettings {
	return AppSettings{Theme: ThemeAuto, HapticFeedback: true, AutoRefresh: true}
}

// Manager reads and writes settings through an injected store.
type Manager struct {
	store localstore.Store
}

// NewManager returns a Manager backed by store.
func NewManager(store localstore.Store) *Manager { return &Manager{store: store} }

// NotificationPrefs loads the notification switches, falling back to
// defaults when the key is absent or unreadable.
func (m *Manager) NotificationPrefs() NotificationPrefs {
	var p NotificationPrefs
	if !m.loadJSON(NotificationsKey, &p) {
		return DefaultNotificationPrefs()
	}
	return p
}

// SaveNotificationPrefs persists the notification switches.
func (m *Manager) SaveNotificationPrefs(p NotificationPrefs) error {
	return m.saveJSON(NotificationsKey, p)
}

// AppSettings loads the app settings, falling back to defaults.  An
// unrecognized persisted theme value is coerced to auto.
func (m *Manager) AppSettings() AppSettings {
	var s AppSettings
	if !m.loadJSON(AppSettingsKey, &s) {
		return DefaultAppSettings()
	}
	if !ValidTheme(s.Theme) {
		s.Theme = ThemeAuto
	}
	return s
}

// SaveAppSettings persists the app settings and mirrors the theme under
// its standalone key, which the clients read before the full settings
// object is available.
func (m *Manager) SaveAppSettings(s AppSettings) error {
	if !ValidTheme(s.Theme) {
		s.Theme = ThemeAuto
	}
	if err := m.saveJSON(AppSettingsKey, s); err != nil {
		return err
	}
	return m.store.Set(ThemeKey, string(s.Theme))
}

// Theme returns the standalone theme value, defaulting to auto.
func (m *Manager) Theme() ThemeMode {
	v, ok, err := m.store.Get(ThemeKey)
	if err != nil || !ok || !ValidTheme(ThemeMode(v)) {
		return ThemeAuto
	}
	return ThemeMode(v)
}

// Reset removes every settings key, returning the device to defaults.
func (m *Manager) Reset() error {
	for _, key := range []string{NotificationsKey, AppSettingsKey, ThemeKey} {
		if err := m.store.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) loadJSON(key string, out any) bool {
	v, ok, err := m.store.Get(key)
	if err != nil || !ok {
		return false
	}
	return json.Unmarshal([]byte(v), out) == nil
}

func (m *Manager) saveJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return m.store.Set(key, string(data))
}
