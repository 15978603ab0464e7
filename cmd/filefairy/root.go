package main

import (
	"context"
	"github.com/orangeandblueleague/filefairy"
	"github.com/orangeandblueleague/filefairy/config"
	"github.com/orangeandblueleague/filefairy/exec"
	"github.com/orangeandblueleague/filefairy/plugins"
	"github.com/orangeandblueleague/filefairy/render"
	"github.com/orangeandblueleague/filefairy/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

const (
	name      = "filefairy"
	envPrefix = "FILEFAIRY"
)

type rootFlags struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           name,
		Short:         "filefairy is the chat bot of the league: it relays league files and renders report pages",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context(), flags)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "filefairy.yml", "Path to the configuration file")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(newInitCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// loadConfig reads the configuration file layered over the defaults. Any key can be overridden
// with a FILEFAIRY_ environment variable (i.e. FILEFAIRY_TOKEN)
func loadConfig(flags *rootFlags) (v *viper.Viper, err error) {
	v = viper.New()
	v.SetConfigFile(flags.configPath)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read configuration [%s]", flags.configPath)
	}

	v = config.LayerConfigWithDefaults(v)
	if flags.debug {
		v.Set(config.DebugKey, true)
	}

	return v, nil
}

func runBot(ctx context.Context, flags *rootFlags) (err error) {
	v, err := loadConfig(flags)
	if err != nil {
		return err
	}

	storer, err := newStorer(v)
	if err != nil {
		return err
	}
	defer storer.Close()

	options, err := renderOptions(v)
	if err != nil {
		return err
	}

	ff, err := newBot(v, storer, options...)
	if err != nil {
		return err
	}
	defer ff.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return ff.Run(ctx)
}

// newBot builds the bot with every bundled plugin that has a configuration
func newBot(v *viper.Viper, storer store.DocumentStorer, options ...filefairy.Option) (ff *filefairy.Filefairy, err error) {
	b := filefairy.NewBot(name, v, options...).
		WithPlugin(plugins.NewVersioner(name, filefairy.VERSION))

	if hasPluginConfig(v, plugins.PollerPluginName) {
		b = b.WithConfigurablePluginErr(plugins.PollerPluginName, func(c *config.PluginConfig) (*filefairy.Plugin, error) {
			return plugins.NewPoller(c, storer)
		})
	}

	if hasPluginConfig(v, plugins.AnnouncerPluginName) {
		b = b.WithConfigurablePluginErr(plugins.AnnouncerPluginName, plugins.NewAnnouncer)
	}

	return b.Build()
}

func hasPluginConfig(v *viper.Viper, pluginName string) bool {
	return v.IsSet(config.PluginsKey + "." + strings.ToLower(pluginName))
}

// renderOptions sets up the template renderer and, when a publish destination is configured,
// the command publisher
func renderOptions(v *viper.Viper) (options []filefairy.Option, err error) {
	renderer, err := render.NewTemplateRenderer(v.GetString(config.RenderTemplateDirKey))
	if err != nil {
		return nil, err
	}
	options = append(options, filefairy.OptionRenderer(renderer))

	if dest := v.GetString(config.RenderPublishDestKey); dest != "" {
		publisher := render.NewCommandPublisher(exec.NewRunner(), v.GetStringSlice(config.RenderPublishCommandKey), dest, v.GetDuration(config.RenderPublishTimeoutKey))
		options = append(options, filefairy.OptionPublisher(publisher))
	}

	return options, nil
}
