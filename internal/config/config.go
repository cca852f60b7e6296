// Package config loads peek's configuration with viper and exposes it as a
// Service with change notification. Precedence: flags > environment
// (PEEK_*) > config file (peek.yaml) > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Dotted paths of every key peek understands.
const (
	KeyToolBarLocation    = "debug.toolbarlocation"
	KeyOpenDebug          = "debug.opendebug"
	KeyLogFile            = "log.file"
	KeyLogLevel           = "log.level"
	KeySourceContextLines = "source.contextlines"
	KeyTarget             = "target"
	KeyLaunchTargets      = "launch.targets"
)

// Toolbar locations. Anything other than "docked" keeps the start/configure
// actions in the panel header instead of the contributed toolbar.
const (
	ToolBarDocked   = "docked"
	ToolBarFloating = "floating"
	ToolBarHidden   = "hidden"
)

func defaults() map[string]any {
	return map[string]any{
		KeyToolBarLocation:    ToolBarDocked,
		KeyOpenDebug:          true,
		KeyLogFile:            "",
		KeyLogLevel:           "warn",
		KeySourceContextLines: 20,
		KeyTarget:             ".",
		KeyLaunchTargets:      []string{},
	}
}

// Service is the live configuration handle. Lookups go straight to viper so
// runtime changes are visible immediately.
type Service struct {
	mu        sync.Mutex
	v         *viper.Viper
	nextID    int
	listeners map[int]func(key string)
	snapshot  map[string]string
}

// Load builds a Service from the standard search paths, binding cmd's flags
// when cmd is non-nil. A missing config file is not an error.
func Load(cmd *cobra.Command) (*Service, error) {
	v := viper.New()

	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName("peek")
	v.SetConfigType("yaml")
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(userConfigDir, "peek"))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("peek")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return nil, fmt.Errorf("error binding flags: %w", err)
		}
	}

	s := newService(v)

	v.OnConfigChange(func(fsnotify.Event) { s.notifyChanged() })
	v.WatchConfig()

	return s, nil
}

// NewForTest wraps a bare viper instance with defaults applied. Used by
// tests and anywhere a file-backed service is not wanted.
func NewForTest() *Service {
	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}
	return newService(v)
}

func newService(v *viper.Viper) *Service {
	return &Service{
		v:         v,
		listeners: map[int]func(string){},
		snapshot:  snapshotOf(v),
	}
}

func (s *Service) ToolBarLocation() string { return s.v.GetString(KeyToolBarLocation) }
func (s *Service) OpenDebug() bool         { return s.v.GetBool(KeyOpenDebug) }
func (s *Service) LogFile() string         { return s.v.GetString(KeyLogFile) }
func (s *Service) LogLevel() string        { return s.v.GetString(KeyLogLevel) }
func (s *Service) SourceContextLines() int { return s.v.GetInt(KeySourceContextLines) }
func (s *Service) Target() string          { return s.v.GetString(KeyTarget) }

// LaunchTargets is the rotation used by the select-and-start action.
func (s *Service) LaunchTargets() []string { return s.v.GetStringSlice(KeyLaunchTargets) }

// Set overrides key at runtime and notifies listeners. The toolbar-location
// keybinding goes through here.
func (s *Service) Set(key string, value any) {
	s.v.Set(key, value)
	s.notifyChanged()
}

// OnDidChange registers fn to be called with the dotted path of each key
// whose effective value changed. Returns the cancel function.
func (s *Service) OnDidChange(fn func(key string)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// notifyChanged diffs the known keys against the last snapshot and fires
// listeners once per changed key.
func (s *Service) notifyChanged() {
	s.mu.Lock()
	current := snapshotOf(s.v)
	var changed []string
	for key := range current {
		if current[key] != s.snapshot[key] {
			changed = append(changed, key)
		}
	}
	s.snapshot = current
	fns := make([]func(string), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, key := range changed {
		for _, fn := range fns {
			fn(key)
		}
	}
}

// snapshotOf renders every known key to a comparable string; list-valued
// keys rule out comparing the raw values.
func snapshotOf(v *viper.Viper) map[string]string {
	snap := make(map[string]string, len(defaults()))
	for key := range defaults() {
		snap[key] = fmt.Sprint(v.Get(key))
	}
	return snap
}
