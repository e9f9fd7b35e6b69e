package localization_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"civicreport/backend/internal/localization"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalizer_ShippedLocales(t *testing.T) {
	l, err := localization.NewLocalizer("locales")
	require.NoError(t, err)

	assert.Equal(t, "In progress", l.GetString("en", "status.IN_PROGRESS"))
	assert.Equal(t, "In lavorazione", l.GetString("it", "status.IN_PROGRESS"))
	assert.Equal(t, "Assigned", l.GetString("fr", "status.ASSIGNED"), "unknown language falls back to English")
	assert.Equal(t, "missing.key", l.GetString("it", "missing.key"))
}

func TestLocalizer_Format(t *testing.T) {
	l, err := localization.NewLocalizer("locales")
	require.NoError(t, err)

	got := l.Format("en", "notification.status_changed", "Broken lamp", "Assigned", "In progress")
	assert.Equal(t, `Your report "Broken lamp" moved from Assigned to In progress.`, got)
}

func TestLocalizer_Match(t *testing.T) {
	l, err := localization.NewLocalizer("locales")
	require.NoError(t, err)

	tests := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"it-IT,it;q=0.9,en;q=0.8", "it"},
		{"de-DE, fr;q=0.8", "en"},
		{"fr, IT", "it"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, l.Match(tt.header))
		})
	}
}

func TestNewLocalizer_Errors(t *testing.T) {
	_, err := localization.NewLocalizer(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte("{not json"), 0o600))
	_, err = localization.NewLocalizer(dir)
	assert.Error(t, err)

	// a directory without catalogs is a misconfiguration
	empty := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(empty, "README.txt"), []byte("x"), 0o600))
	_, err = localization.NewLocalizer(empty)
	assert.Error(t, err)
}

func TestLoad_MapFS(t *testing.T) {
	l, err := localization.Load(fstest.MapFS{
		"EN.json":   {Data: []byte(`{"greeting": "Hello %s"}`)},
		"it.json":   {Data: []byte(`{"greeting": "Ciao %s"}`)},
		"notes.txt": {Data: []byte("ignored")},
	})
	require.NoError(t, err)

	assert.True(t, l.Has("en"), "language codes are lowercased")
	assert.False(t, l.Has("notes"))
	assert.Equal(t, "Ciao Anna", l.Format("it", "greeting", "Anna"))
	assert.Equal(t, "Hello Anna", l.Format("de", "greeting", "Anna"))
}
