/*
Package filefairy provides the engine of the filefairy chat bot: a registry of independently enabled
plugins driven by a single dispatch loop.

Plugins compose capabilities by setting handlers:
 - Runnable: Run is invoked on every tick
 - Messageable: OnMessage is invoked for every chat message and Commands are callable from the control
   channel as Name.command(args...)
 - Notifiable: OnNotify is invoked with the notifications other plugins emit
 - Serializable: State is loaded when the plugin is created and rewritten wholesale
 - Renderable: Render returns the pages to build after the plugin's state changed

Every handler returns a Response carrying patches to merge into other plugins' state, deferred
tasks and notifications. A handler that fails or panics gets its plugin quarantined until restart.

Plugins also have access to services injected on registration by filefairy:
 - SLogger: To log debug/info statements
 - Chat: To post, update and upload outside of the response flow

Example code:

	package main

	import (
		"github.com/orangeandblueleague/filefairy"
		"github.com/orangeandblueleague/filefairy/config"
		"github.com/orangeandblueleague/filefairy/plugins"
	)

	func main() {
		// TODO: Parse command-line, initialize viper and instantiate the DocumentStorer needed by some plugins

		ff, err := filefairy.NewBot("filefairy", v, options...).
			WithConfigurablePluginErr(plugins.PollerPluginName, func(conf *config.PluginConfig) (p *filefairy.Plugin, err error) { return plugins.NewPoller(conf, storer) }).
			WithConfigurablePluginErr(plugins.AnnouncerPluginName, plugins.NewAnnouncer).
			WithPlugin(plugins.NewVersioner("filefairy", version)).
			Build()
		defer ff.Close()

		if err != nil {
			log.Fatal(err)
		}

		err = ff.Run(ctx)
		if err != nil {
			log.Fatal(err)
		}
	}
*/
package filefairy
