package filefairy

import (
	"github.com/orangeandblueleague/filefairy/config"
	"github.com/spf13/viper"
	"io"
)

// Builder holds a filefairy instance to build
type Builder struct {
	bot *Filefairy
	err error
}

// ConfigurablePluginCreator is a function creating a plugin from its configuration
type ConfigurablePluginCreator func(conf *config.PluginConfig) (p *Plugin, err error)

// ConfigurablePluginCloserCreator is a function creating a plugin that holds resources to close
// from its configuration
type ConfigurablePluginCloserCreator func(conf *config.PluginConfig) (c io.Closer, p *Plugin, err error)

// NewBot returns a new Builder used to set up a new filefairy
func NewBot(name string, v *viper.Viper, options ...Option) (sb *Builder) {
	sb = new(Builder)
	sb.bot, sb.err = New(name, v, options...)

	return sb
}

// WithPlugin adds a plugin to the filefairy instance
func (sb *Builder) WithPlugin(p *Plugin) *Builder {
	if sb.err != nil {
		return sb
	}

	sb.err = sb.bot.RegisterPlugin(p)

	return sb
}

// WithPluginErr adds a plugin that has a creation function returning (Plugin, error) to the filefairy instance
func (sb *Builder) WithPluginErr(p *Plugin, err error) *Builder {
	if sb.err == nil && err != nil {
		sb.err = err
	}

	return sb.WithPlugin(p)
}

// WithPluginCloserErr adds a plugin that has a creation function returning (io.Closer, Plugin, error) to the filefairy instance
func (sb *Builder) WithPluginCloserErr(closer io.Closer, p *Plugin, err error) *Builder {
	if sb.err == nil && err != nil {
		sb.err = err
	}

	if sb.err != nil {
		return sb
	}

	if closer != nil {
		sb.bot.closers = append(sb.bot.closers, closer)
	}

	return sb.WithPlugin(p)
}

// WithConfigurablePluginErr adds a plugin created from its configuration (found under plugins.<name>)
func (sb *Builder) WithConfigurablePluginErr(name string, newFn ConfigurablePluginCreator) *Builder {
	if sb.err != nil {
		return sb
	}

	pc, err := config.GetPluginConfig(sb.bot.config, name)
	if err != nil {
		sb.err = err
		return sb
	}

	return sb.WithPluginErr(newFn(pc))
}

// WithConfigurablePluginCloserErr adds a plugin holding resources to close, created from its
// configuration (found under plugins.<name>)
func (sb *Builder) WithConfigurablePluginCloserErr(name string, newFn ConfigurablePluginCloserCreator) *Builder {
	if sb.err != nil {
		return sb
	}

	pc, err := config.GetPluginConfig(sb.bot.config, name)
	if err != nil {
		sb.err = err
		return sb
	}

	return sb.WithPluginCloserErr(newFn(pc))
}

// Build returns the built filefairy instance. If there was an error during
// setup, the error is returned along with a nil filefairy and the closers of the plugins
// created so far are closed
func (sb *Builder) Build() (ff *Filefairy, err error) {
	if sb.err != nil {
		if sb.bot != nil {
			sb.bot.Close()
		}

		return nil, sb.err
	}

	return sb.bot, nil
}
