package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s := NewForTest()

	assert.Equal(t, ToolBarDocked, s.ToolBarLocation())
	assert.True(t, s.OpenDebug())
	assert.Equal(t, "warn", s.LogLevel())
	assert.Equal(t, 20, s.SourceContextLines())
	assert.Equal(t, ".", s.Target())
}

func TestSetNotifiesChangedKey(t *testing.T) {
	s := NewForTest()

	var changed []string
	s.OnDidChange(func(key string) { changed = append(changed, key) })

	s.Set(KeyToolBarLocation, ToolBarFloating)

	require.Equal(t, []string{KeyToolBarLocation}, changed)
	assert.Equal(t, ToolBarFloating, s.ToolBarLocation())
}

func TestSetSameValueDoesNotNotify(t *testing.T) {
	s := NewForTest()

	calls := 0
	s.OnDidChange(func(string) { calls++ })

	s.Set(KeyToolBarLocation, ToolBarDocked)

	assert.Zero(t, calls)
}

func TestOnDidChangeCancel(t *testing.T) {
	s := NewForTest()

	calls := 0
	cancel := s.OnDidChange(func(string) { calls++ })

	s.Set(KeyLogLevel, "debug")
	cancel()
	s.Set(KeyLogLevel, "info")

	assert.Equal(t, 1, calls)
}

func TestLoadWithoutConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	s, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ToolBarDocked, s.ToolBarLocation())
}
