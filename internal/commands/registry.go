package commands

import (
	"fmt"
	"slices"
	"sync"
)

// Registry maps command names and aliases to commands.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Command)}
}

// Register adds c under its name and aliases. No key is added when any of
// them is already taken.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := append([]string{c.Name()}, c.Aliases()...)
	for _, key := range keys {
		if _, taken := r.byName[key]; taken {
			return fmt.Errorf("command already registered: %s", key)
		}
	}
	for _, key := range keys {
		r.byName[key] = c
	}
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[name]
	return c, ok
}

// All returns each command once, ordered by primary name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	primary := make(map[string]Command)
	for _, c := range r.byName {
		primary[c.Name()] = c
	}

	all := make([]Command, 0, len(primary))
	names := make([]string, 0, len(primary))
	for name := range primary {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		all = append(all, primary[name])
	}
	return all
}

// DefaultRegistry holds the commands registered by this package's init functions.
var DefaultRegistry = NewRegistry()

// Register adds c to DefaultRegistry and panics on a name clash.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
