package filefairy

import (
	"fmt"
	"github.com/pkg/errors"
	"regexp"
	"strings"
)

// HandleMessage routes a message to a plugin. Messages in the control channel mentioning the
// plugin by name are first tried as commands (Name.command(args...)). Anything else falls through
// to the plugin's OnMessage handler, if it has one
func (p *Plugin) HandleMessage(m *Message, controlChannel string) (r *Response, err error) {
	r, matched, err := p.routeCommand(m, controlChannel)
	if matched {
		return r, err
	}

	if p.OnMessage != nil {
		return p.OnMessage(m)
	}

	return Empty(), nil
}

// routeCommand invokes the command matching the message text. matched is false if the message
// isn't a command for this plugin. A successful command always results in a Base notification,
// regardless of what it did
func (p *Plugin) routeCommand(m *Message, controlChannel string) (r *Response, matched bool, err error) {
	if controlChannel == "" || m.Channel != controlChannel || !strings.Contains(m.Text, p.Name) {
		return nil, false, nil
	}

	text := strings.TrimSpace(m.Text)
	for _, c := range p.Commands {
		if !strings.Contains(text, c.Name) {
			continue
		}

		args, ok := matchCommand(p.commandPattern(c.Name), text)
		if !ok {
			continue
		}

		if err = c.Handler(&CommandCall{Args: args, Verbose: true, Message: m}); err != nil {
			return nil, true, errors.Wrap(err, fmt.Sprintf("command [%s.%s] failed", p.Name, c.Name))
		}

		return Notify(Base), true, nil
	}

	return nil, false, nil
}

// commandPattern returns the compiled pattern of a command, building the command table if the
// plugin wasn't registered or its commands changed
func (p *Plugin) commandPattern(name string) *regexp.Regexp {
	if r, ok := p.patterns[name]; ok {
		return r
	}

	p.buildCommandTable()
	return p.patterns[name]
}

// compileCommandPattern compiles the pattern of pluginName.commandName(args...)
func compileCommandPattern(pluginName string, commandName string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`^%s\.%s\((.*)\)$`, regexp.QuoteMeta(pluginName), regexp.QuoteMeta(commandName)))
}

// matchCommand matches text against a command pattern and returns the comma separated
// arguments, trimmed
func matchCommand(pattern *regexp.Regexp, text string) (args []string, ok bool) {
	matches := pattern.FindStringSubmatch(text)
	if matches == nil {
		return nil, false
	}

	args = make([]string, 0)
	if strings.TrimSpace(matches[1]) == "" {
		return args, true
	}

	for _, a := range strings.Split(matches[1], ",") {
		args = append(args, strings.TrimSpace(a))
	}

	return args, true
}
