package filefairy

import (
	"fmt"
	"github.com/nlopes/slack"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"regexp"
	"strings"
	"time"
)

// Plugin is an independently enabled unit of bot functionality. Its capabilities come from the
// handlers it sets: a plugin with a Run handler is Runnable, one with a State is Serializable
// and so on
type Plugin struct {
	// Name identifies the plugin. It is the routing key of in-chat commands and the log tag
	Name string

	// Description is a short human description shown by the status plugin
	Description string

	// Setup is called once before the first tick
	Setup SetupHandler

	// Run is called on every tick
	Run RunHandler

	// OnMessage is called for every chat message not routed to a command
	OnMessage MessageHandler

	// OnNotify is called for every notification emitted by another plugin
	OnNotify NotifyHandler

	// Render returns the pages to build after the plugin's state changed
	Render RenderHandler

	// State is the plugin's persisted state
	State *State

	// Commands exposed in the control channel as Name.command(args...)
	Commands []Command

	// Logger is injected by filefairy at registration
	Logger SLogger

	// Chat is injected by filefairy at registration and used to post messages outside of the
	// normal response flow
	Chat Chat

	disabled bool
	commands map[string]*Command
	patterns map[string]*regexp.Regexp
}

// SetupHandler is invoked once before the first tick
type SetupHandler func() (r *Response, err error)

// RunHandler is invoked on every tick
type RunHandler func(ctx RunContext) (r *Response, err error)

// MessageHandler is invoked for chat messages
type MessageHandler func(m *Message) (r *Response, err error)

// NotifyHandler is invoked for notifications emitted by other plugins
type NotifyHandler func(n Notification) (r *Response, err error)

// RenderHandler returns the pages a plugin wants built
type RenderHandler func(ctx RenderContext) (items []RenderItem, err error)

// CommandHandler is what gets executed when a command is invoked from chat
type CommandHandler func(c *CommandCall) (err error)

// Message is an incoming chat message
type Message struct {
	slack.Msg
}

// RunContext holds the context of one tick
type RunContext struct {
	Now time.Time
}

// RenderContext holds the context of one render
type RenderContext struct {
	Now time.Time
}

// RenderItem describes one page to render: the template to execute with its data and the
// destination path (relative to the output directory and to the publish destination)
type RenderItem struct {
	Destination string `validate:"required"`
	Subtitle    string
	Template    string `validate:"required"`
	Data        interface{}
}

// Command is an explicitly exposed in-chat command
type Command struct {
	// Indicates whether the command should be omitted from the help message
	Hidden bool

	// Name of the command as typed after the plugin name (i.e. "check" in "Poller.check()")
	Name string

	// Usage example (i.e. "Poller.check()")
	Usage string

	// Help description
	Description string

	// Handler invoked with the command arguments
	Handler CommandHandler
}

// CommandCall holds the arguments of one command invocation
type CommandCall struct {
	// Args are the trimmed, comma-separated arguments
	Args []string

	// Verbose is set when the caller asked for verbose output (always the case from chat)
	Verbose bool

	// Message is the chat message holding the command
	Message *Message
}

// String returns a friendly description of a Command
func (c Command) String() string {
	return fmt.Sprintf("`%s` - %s", c.Usage, c.Description)
}

// String returns the argument at index i or an empty string
func (c *CommandCall) String(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}

	return c.Args[i]
}

// Int returns the argument at index i converted to an int
func (c *CommandCall) Int(i int) (v int, err error) {
	if i < 0 || i >= len(c.Args) {
		return 0, errors.Errorf("missing argument %d", i+1)
	}

	return cast.ToIntE(c.Args[i])
}

// Bool returns the argument at index i converted to a bool
func (c *CommandCall) Bool(i int) (v bool, err error) {
	if i < 0 || i >= len(c.Args) {
		return false, errors.Errorf("missing argument %d", i+1)
	}

	return cast.ToBoolE(c.Args[i])
}

// Capabilities returns the set of capabilities of the plugin
func (p *Plugin) Capabilities() (c Capability) {
	if p.OnMessage != nil || len(p.Commands) > 0 {
		c |= Messageable
	}
	if p.Run != nil {
		c |= Runnable
	}
	if p.OnNotify != nil {
		c |= Notifiable
	}
	if p.Render != nil {
		c |= Renderable
	}
	if p.State != nil {
		c |= Serializable
	}

	return c
}

// Has returns true if the plugin has the capability
func (p *Plugin) Has(c Capability) bool {
	return p.Capabilities().Has(c)
}

// Enabled returns true unless the plugin was disabled
func (p *Plugin) Enabled() bool {
	return !p.disabled
}

// Enable enables the plugin
func (p *Plugin) Enable() {
	p.disabled = false
}

// Disable disables the plugin. A disabled plugin stays registered but isn't invoked
func (p *Plugin) Disable() {
	p.disabled = true
}

// Command returns the command with the given name
func (p *Plugin) Command(name string) (c *Command, ok bool) {
	if p.commands == nil {
		p.buildCommandTable()
	}

	c, ok = p.commands[name]
	return c, ok
}

// validate checks the plugin is well formed before registration
func (p *Plugin) validate() (err error) {
	if p.Name == "" {
		return errors.New("plugin name must not be empty")
	}

	if strings.ContainsAny(p.Name, ".() \t\n") {
		return errors.Errorf("plugin name [%s] must not contain dots, parentheses or spaces", p.Name)
	}

	seen := make(map[string]bool)
	for _, c := range p.Commands {
		if c.Name == "" || strings.HasPrefix(c.Name, "_") || strings.ContainsAny(c.Name, ".() \t\n") {
			return errors.Wrapf(ErrInvalidCommand, "[%s.%s]", p.Name, c.Name)
		}

		if c.Handler == nil {
			return errors.Wrapf(ErrInvalidCommand, "[%s.%s] has no handler", p.Name, c.Name)
		}

		if seen[c.Name] {
			return errors.Wrapf(ErrInvalidCommand, "[%s.%s] is defined more than once", p.Name, c.Name)
		}
		seen[c.Name] = true
	}

	p.buildCommandTable()
	return nil
}

func (p *Plugin) buildCommandTable() {
	p.commands = make(map[string]*Command)
	p.patterns = make(map[string]*regexp.Regexp)
	for i := range p.Commands {
		c := &p.Commands[i]
		p.commands[c.Name] = c
		p.patterns[c.Name] = compileCommandPattern(p.Name, c.Name)
	}
}
