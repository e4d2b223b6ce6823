package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Settings carries everything a provider needs to build an
// authenticated client. It is assembled once per process.
type Settings struct {
	Token       string
	Endpoint    string
	Application string
	Version     string
}

// Factory builds a Client for a registered provider name.
type Factory func(settings Settings) (Client, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// RegisterProvider registers a factory for a provider name.
// e.g. RegisterProvider("hetzner", newHetznerClient)
func RegisterProvider(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic("RegisterProvider called twice for " + name)
	}
	registry[name] = factory
}

// NewClient builds a client from the provider registered under name.
func NewClient(name string, settings Settings) (Client, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("provider '%s' not found in registry", name)
	}
	return factory(settings)
}

// Names lists the registered providers in alphabetical order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
