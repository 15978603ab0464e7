package filefairy

import (
	"fmt"
	"github.com/pkg/errors"
	"io"
	"strings"
)

const (
	statusPluginName = "Status"
)

// statusPlugin lists the registered plugins and their commands in the control channel and
// enables or disables plugins at runtime
type statusPlugin struct {
	*Plugin

	ff *Filefairy
}

func newStatusPlugin(ff *Filefairy) (p *Plugin) {
	sp := new(statusPlugin)
	sp.ff = ff

	sp.Plugin = &Plugin{Name: statusPluginName, Description: "Reports on plugins and enables or disables them", Commands: []Command{
		{Name: "help", Usage: statusPluginName + ".help()", Description: "List the commands of all plugins", Handler: sp.help},
		{Name: "plugins", Usage: statusPluginName + ".plugins()", Description: "List all plugins with their state", Handler: sp.plugins},
		{Name: "enable", Usage: statusPluginName + ".enable(<plugin>)", Description: "Enable a plugin", Handler: sp.enable},
		{Name: "disable", Usage: statusPluginName + ".disable(<plugin>)", Description: "Disable a plugin", Handler: sp.disable},
	}}

	return sp.Plugin
}

// help posts the usage of every visible command
func (sp *statusPlugin) help(c *CommandCall) (err error) {
	var b strings.Builder

	fmt.Fprintf(&b, "I'm `%s` (engine `v%s`) and I support the following commands:\n", sp.ff.name, VERSION)
	for _, e := range sp.ff.entries {
		appendCommands(&b, e.Commands)
	}

	return sp.post(b.String())
}

// plugins posts every plugin with its capabilities and state
func (sp *statusPlugin) plugins(c *CommandCall) (err error) {
	var b strings.Builder

	for _, e := range sp.ff.entries {
		fmt.Fprintf(&b, "\t• `%s` [%s] %s", e.Name, e.Capabilities(), entryState(e))
		if e.Description != "" {
			fmt.Fprintf(&b, " - %s", e.Description)
		}
		fmt.Fprintf(&b, "\n")
	}

	return sp.post(b.String())
}

func (sp *statusPlugin) enable(c *CommandCall) (err error) {
	e, err := sp.target(c)
	if err != nil {
		return sp.post(err.Error())
	}

	e.Enable()
	return sp.post(fmt.Sprintf("`%s` is %s", e.Name, entryState(e)))
}

func (sp *statusPlugin) disable(c *CommandCall) (err error) {
	e, err := sp.target(c)
	if err != nil {
		return sp.post(err.Error())
	}

	if e.Plugin == sp.Plugin {
		return sp.post(fmt.Sprintf("`%s` can't be disabled", e.Name))
	}

	e.Disable()
	return sp.post(fmt.Sprintf("`%s` is %s", e.Name, entryState(e)))
}

func (sp *statusPlugin) target(c *CommandCall) (e *entry, err error) {
	name := c.String(0)
	e, ok := sp.ff.byName[name]
	if !ok {
		return nil, errors.Errorf("No plugin named `%s`", name)
	}

	return e, nil
}

func (sp *statusPlugin) post(text string) (err error) {
	_, err = sp.Chat.Post(sp.ff.controlChannel, text)
	return err
}

func entryState(e *entry) string {
	switch {
	case e.status == failed:
		return "failed"
	case !e.Enabled():
		return "disabled"
	}

	return "active"
}

func appendCommands(w io.Writer, commands []Command) {
	for _, c := range commands {
		if c.Usage != "" && !c.Hidden {
			fmt.Fprintf(w, "\t• %s\n", c)
		}
	}
}
