/*
Package actions provides a fluent API for creating filefairy plugin commands. Typical usages
will also involve using the plugin fluent API from github.com/orangeandblueleague/filefairy/plugin.

Plugin examples using this API can be found in github.com/orangeandblueleague/filefairy/plugins but
a quick one could look like:

	import (
		"github.com/orangeandblueleague/filefairy"
		"github.com/orangeandblueleague/filefairy/plugin"
		"github.com/orangeandblueleague/filefairy/actions"
	)

	func newPlugin() (p *filefairy.Plugin) {
		p = plugin.New("Maker").
			WithCommand(actions.NewCommand("make").
				WithUsage("Maker.make(<something>)").
				WithDescription("Make the `<something>` you need").
				WithHandler(func(c *filefairy.CommandCall) error {
					_, err := p.Chat.Post(c.Message.Channel, fmt.Sprintf(":white_check_mark: `%s` is ready for you!", c.String(0)))
					return err
				}).
				Build()
			).
			Build()
		return p
	}
*/
package actions

import (
	"fmt"
	"github.com/orangeandblueleague/filefairy"
)

// CommandBuilder holds the command to build
type CommandBuilder struct {
	command filefairy.Command
}

var (
	// Default to doing nothing. A command without a handler still acknowledges with a Base
	// notification when invoked
	defaultHandler = func(c *filefairy.CommandCall) error {
		return nil
	}
)

// NewCommand returns a new CommandBuilder to build a command invoked as Plugin.name(args...).
// When done with the setup, the caller is expected to call Build() to get the command
func NewCommand(name string) (cb *CommandBuilder) {
	cb = new(CommandBuilder)
	cb.command = filefairy.Command{Name: name, Hidden: false}
	cb.command.Handler = defaultHandler

	return cb
}

// WithUsage sets the command usage
func (cb *CommandBuilder) WithUsage(usage string) *CommandBuilder {
	cb.command.Usage = usage
	return cb
}

// WithDescription sets the command description
func (cb *CommandBuilder) WithDescription(description string) *CommandBuilder {
	cb.command.Description = description
	return cb
}

// WithDescriptionf sets the command description delegating format and arguments to fmt.Sprintf
func (cb *CommandBuilder) WithDescriptionf(format string, a ...interface{}) *CommandBuilder {
	cb.command.Description = fmt.Sprintf(format, a...)
	return cb
}

// WithHandler sets the command's handler function
func (cb *CommandBuilder) WithHandler(handler filefairy.CommandHandler) *CommandBuilder {
	cb.command.Handler = handler
	return cb
}

// Hidden sets the command to hidden
func (cb *CommandBuilder) Hidden() *CommandBuilder {
	cb.command.Hidden = true
	return cb
}

// Build returns the Command
func (cb *CommandBuilder) Build() filefairy.Command {
	return cb.command
}
