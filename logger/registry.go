package logger

import (
	"maps"
	"slices"
	"sync"
)

// DefaultComponent is the component the rx wrappers log under when no
// logger is passed to them.
const DefaultComponent = "rx"

var components = struct {
	sync.RWMutex
	byName map[string]*Logger
}{byName: make(map[string]*Logger)}

// Register stores l as the logger for component name. A nil l removes the
// entry, so Get falls back to the global logger again.
func Register(name string, l *Logger) {
	components.Lock()
	defer components.Unlock()
	if l == nil {
		delete(components.byName, name)
		return
	}
	components.byName[name] = l
}

// Get returns the logger registered for name. Unregistered components get
// the current global logger tagged with the component name.
func Get(name string) *Logger {
	components.RLock()
	l, ok := components.byName[name]
	components.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults derives a component logger from the global logger for
// each name, DefaultComponent when none are given. Call it after Init so
// the registered loggers carry the configured level and format.
func RegisterDefaults(names ...string) {
	if len(names) == 0 {
		names = []string{DefaultComponent}
	}
	global := GetGlobalLogger()
	for _, name := range names {
		Register(name, global.WithComponent(name))
	}
}

// Registered returns the registered component names in sorted order.
func Registered() []string {
	components.RLock()
	defer components.RUnlock()
	return slices.Sorted(maps.Keys(components.byName))
}
