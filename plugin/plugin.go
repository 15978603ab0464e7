// Package plugin provides a fluent API to assemble a filefairy plugin from its handlers. Commands
// are typically built with the fluent API of github.com/orangeandblueleague/filefairy/actions
package plugin

import (
	"github.com/orangeandblueleague/filefairy"
)

// PluginBuilder holds a plugin to build
type PluginBuilder struct {
	plugin *filefairy.Plugin
}

// New creates a new PluginBuilder with a plugin with the given name and no handler
func New(name string) (pb *PluginBuilder) {
	pb = new(PluginBuilder)
	pb.plugin = new(filefairy.Plugin)
	pb.plugin.Name = name
	pb.plugin.Commands = make([]filefairy.Command, 0)

	return pb
}

// WithDescription sets the plugin description
func (pb *PluginBuilder) WithDescription(description string) *PluginBuilder {
	pb.plugin.Description = description
	return pb
}

// WithCommand adds a command to the plugin
func (pb *PluginBuilder) WithCommand(command filefairy.Command) *PluginBuilder {
	pb.plugin.Commands = append(pb.plugin.Commands, command)
	return pb
}

// WithSetup sets the handler invoked once before the first tick
func (pb *PluginBuilder) WithSetup(setup filefairy.SetupHandler) *PluginBuilder {
	pb.plugin.Setup = setup
	return pb
}

// WithRun makes the plugin Runnable
func (pb *PluginBuilder) WithRun(run filefairy.RunHandler) *PluginBuilder {
	pb.plugin.Run = run
	return pb
}

// WithMessageHandler makes the plugin Messageable
func (pb *PluginBuilder) WithMessageHandler(onMessage filefairy.MessageHandler) *PluginBuilder {
	pb.plugin.OnMessage = onMessage
	return pb
}

// WithNotifyHandler makes the plugin Notifiable
func (pb *PluginBuilder) WithNotifyHandler(onNotify filefairy.NotifyHandler) *PluginBuilder {
	pb.plugin.OnNotify = onNotify
	return pb
}

// WithRender makes the plugin Renderable
func (pb *PluginBuilder) WithRender(render filefairy.RenderHandler) *PluginBuilder {
	pb.plugin.Render = render
	return pb
}

// WithState makes the plugin Serializable
func (pb *PluginBuilder) WithState(state *filefairy.State) *PluginBuilder {
	pb.plugin.State = state
	return pb
}

// Disabled registers the plugin disabled. It can be enabled at runtime
func (pb *PluginBuilder) Disabled() *PluginBuilder {
	pb.plugin.Disable()
	return pb
}

// Build returns the created Plugin instance
func (pb *PluginBuilder) Build() (p *filefairy.Plugin) {
	return pb.plugin
}
