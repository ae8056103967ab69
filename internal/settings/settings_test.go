package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seckc/community-api/internal/localstore"
)

func TestDefaultsWhenUnset(t *testing.T) {
	m := NewManager(localstore.NewMemStore())

	assert.Equal(t, DefaultNotificationPrefs(), m.NotificationPrefs())
	assert.Equal(t, DefaultAppSettings(), m.AppSettings())
	assert.Equal(t, ThemeAuto, m.Theme())
}

func TestRoundTrip(t *testing.T) {
	m := NewManager(localstore.NewMemStore())

	prefs := NotificationPrefs{Events: true, Newsletter: true}
	require.NoError(t, m.SaveNotificationPrefs(prefs))
	assert.Equal(t, prefs, m.NotificationPrefs())

	s := AppSettings{Theme: ThemeDark, HapticFeedback: false, AutoRefresh: true}
	require.NoError(t, m.SaveAppSettings(s))
	assert.Equal(t, s, m.AppSettings())
	assert.Equal(t, ThemeDark, m.Theme(), "standalone theme key mirrors app settings")
}

func TestMalformedJSONFailsOpenToDefaults(t *testing.T) {
	store := localstore.NewMemStore()
	require.NoError(t, store.Set(NotificationsKey, "{broken"))
	require.NoError(t, store.Set(AppSettingsKey, "[]"))

	m := NewManager(store)
	assert.Equal(t, DefaultNotificationPrefs(), m.NotificationPrefs())
	assert.Equal(t, DefaultAppSettings(), m.AppSettings())
}

func TestUnknownThemeCoercedToAuto(t *testing.T) {
	store := localstore.NewMemStore()
	m := NewManager(store)

	require.NoError(t, m.SaveAppSettings(AppSettings{Theme: ThemeMode("solarized")}))
	assert.Equal(t, ThemeAuto, m.AppSettings().Theme)
	assert.Equal(t, ThemeAuto, m.Theme())
}

func TestReset(t *testing.T) {
	store := localstore.NewMemStore()
	m := NewManager(store)

	require.NoError(t, m.SaveNotificationPrefs(NotificationPrefs{Social: true}))
	require.NoError(t, m.SaveAppSettings(AppSettings{Theme: ThemeLight}))
	require.NoError(t, m.Reset())

	assert.Equal(t, DefaultNotificationPrefs(), m.NotificationPrefs())
	assert.Equal(t, DefaultAppSettings(), m.AppSettings())
	assert.Equal(t, ThemeAuto, m.Theme())
}
