package filefairy

import (
	"strings"
)

// Capability is one of the things a plugin can do. A plugin's capabilities are derived from the
// handlers it carries and the engine checks them before invoking anything
type Capability uint8

// Capabilities. Every plugin is also nameable
const (
	// Messageable plugins receive chat messages (and expose in-chat commands)
	Messageable Capability = 1 << iota
	// Runnable plugins are invoked on every tick
	Runnable
	// Notifiable plugins receive notifications broadcast by other plugins
	Notifiable
	// Renderable plugins build html pages after their state changes
	Renderable
	// Serializable plugins hold a persisted state document
	Serializable
)

var capabilityNames = []struct {
	c    Capability
	name string
}{
	{Messageable, "messageable"},
	{Runnable, "runnable"},
	{Notifiable, "notifiable"},
	{Renderable, "renderable"},
	{Serializable, "serializable"},
}

// Has returns true if all capabilities of o are in c
func (c Capability) Has(o Capability) bool {
	return c&o == o
}

// String returns the names of the capabilities in the set
func (c Capability) String() string {
	names := make([]string, 0)
	for _, cn := range capabilityNames {
		if c.Has(cn.c) {
			names = append(names, cn.name)
		}
	}

	if len(names) == 0 {
		return "none"
	}

	return strings.Join(names, ",")
}
