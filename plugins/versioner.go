// Package plugins provides a collection of plugins for instances of filefairy
package plugins

import (
	"fmt"
	"github.com/orangeandblueleague/filefairy"
	"github.com/orangeandblueleague/filefairy/actions"
)

// Versioner holds the plugin data for the versioner plugin
type Versioner struct {
	*filefairy.Plugin

	name    string
	version string
}

const (
	// VersionerPluginName holds identifying name for the versioner plugin
	VersionerPluginName = "Versioner"
)

// NewVersioner creates a new instance of the versioner plugin
func NewVersioner(name string, version string) (p *filefairy.Plugin) {
	v := &Versioner{name: name, version: version}

	v.Plugin = &filefairy.Plugin{Name: VersionerPluginName, Description: "Tells the running version", Commands: []filefairy.Command{
		actions.NewCommand("version").
			WithUsage(VersionerPluginName + ".version()").
			WithDescriptionf("Reply with `%s`'s `version` number", name).
			WithHandler(v.reply).
			Build(),
	}}

	return v.Plugin
}

func (v *Versioner) reply(c *filefairy.CommandCall) (err error) {
	_, err = v.Chat.Post(c.Message.Channel, fmt.Sprintf("I'm `%s`, version `%s`", v.name, v.version))
	return err
}
