package filefairy_test

import (
	"github.com/orangeandblueleague/filefairy"
	"github.com/orangeandblueleague/filefairy/config"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
)

type closeTester struct {
	errorMsg string
}

func (c closeTester) Close() (err error) {
	if c.errorMsg != "" {
		return errors.New(c.errorMsg)
	}

	return nil
}

func newBuilderPlugin(name string) (p *filefairy.Plugin) {
	return &filefairy.Plugin{Name: name, OnMessage: func(m *filefairy.Message) (*filefairy.Response, error) {
		return filefairy.Empty(), nil
	}}
}

func newPluginWithErr(errMsg string) (p *filefairy.Plugin, err error) {
	if errMsg != "" {
		return nil, errors.New(errMsg)
	}

	return newBuilderPlugin("tester"), nil
}

func newPluginWithErrAndCloser(errMsg string, closer closeTester) (c io.Closer, p *filefairy.Plugin, err error) {
	p, err = newPluginWithErr(errMsg)
	return closer, p, err
}

func TestNewBotWithoutPlugins(t *testing.T) {
	b, err := filefairy.NewBot("fairy", config.NewViperWithDefaults()).
		Build()

	require.NoError(t, err)
	require.NotNil(t, b)
}

func TestNewBotWithSimplePlugin(t *testing.T) {
	b, err := filefairy.NewBot("fairy", config.NewViperWithDefaults()).
		WithPlugin(newBuilderPlugin("tester")).
		Build()

	require.NoError(t, err)
	require.NotNil(t, b)

	p, ok := b.Plugin("tester")
	require.True(t, ok)
	assert.NotNil(t, p.Logger)
	assert.NotNil(t, p.Chat)
}

func TestNewBotWithDuplicatePluginName(t *testing.T) {
	b, err := filefairy.NewBot("fairy", config.NewViperWithDefaults()).
		WithPlugin(newBuilderPlugin("tester")).
		WithPlugin(newBuilderPlugin("tester")).
		Build()

	require.Error(t, err)
	assert.True(t, errors.Is(err, filefairy.ErrDuplicatePlugin))
	assert.EqualError(t, err, "[tester]: duplicate plugin name")
	assert.Nil(t, b)
}

func TestNewBotWithPrivateCommand(t *testing.T) {
	p := newBuilderPlugin("tester")
	p.Commands = []filefairy.Command{{Name: "_secret", Handler: func(c *filefairy.CommandCall) error { return nil }}}

	b, err := filefairy.NewBot("fairy", config.NewViperWithDefaults()).
		WithPlugin(p).
		Build()

	require.Error(t, err)
	assert.True(t, errors.Is(err, filefairy.ErrInvalidCommand))
	assert.Nil(t, b)
}

func TestNewBotWithInvalidPluginName(t *testing.T) {
	b, err := filefairy.NewBot("fairy", config.NewViperWithDefaults()).
		WithPlugin(newBuilderPlugin("test.er")).
		Build()

	require.Error(t, err)
	assert.Nil(t, b)
}

func TestNewBotWithPluginAndError(t *testing.T) {
	b, err := filefairy.NewBot("fairy", config.NewViperWithDefaults()).
		WithPluginErr(newPluginWithErr("")).
		Build()

	require.NoError(t, err)
	require.NotNil(t, b)
}

func TestNewBotWithPluginAndErrorSet(t *testing.T) {
	b, err := filefairy.NewBot("fairy", config.NewViperWithDefaults()).
		WithPluginErr(newPluginWithErr("error1")).
		Build()

	require.Error(t, err)
	assert.EqualError(t, err, "error1")
	assert.Nil(t, b)
}

func TestNewBotWithPluginAndManyErrors(t *testing.T) {
	b, err := filefairy.NewBot("fairy", config.NewViperWithDefaults()).
		WithPluginErr(newPluginWithErr("error1")).
		WithPluginErr(newPluginWithErr("error2")).
		WithPlugin(newBuilderPlugin("other")).
		Build()

	require.Error(t, err)
	assert.EqualError(t, err, "error1")
	assert.Nil(t, b)
}

func TestNewBotWithCloserPluginClosingWithError(t *testing.T) {
	b, err := filefairy.NewBot("fairy", config.NewViperWithDefaults()).
		WithPluginCloserErr(newPluginWithErrAndCloser("", closeTester{errorMsg: "should be called"})).
		Build()

	require.NoError(t, err)
	require.NotNil(t, b)

	err = b.Close()
	assert.EqualError(t, err, "should be called")
}

func TestNewBotWithCloserPluginClosingWithoutError(t *testing.T) {
	b, err := filefairy.NewBot("fairy", config.NewViperWithDefaults()).
		WithPluginCloserErr(newPluginWithErrAndCloser("", closeTester{errorMsg: ""})).
		Build()

	require.NoError(t, err)
	require.NotNil(t, b)

	err = b.Close()
	assert.NoError(t, err)
}

func TestNewBotWithCloserAndErr(t *testing.T) {
	b, err := filefairy.NewBot("fairy", config.NewViperWithDefaults()).
		WithPluginCloserErr(newPluginWithErrAndCloser("error1", closeTester{})).
		WithPluginCloserErr(newPluginWithErrAndCloser("error2", closeTester{})).
		Build()

	require.Error(t, err)
	assert.EqualError(t, err, "error1")
	assert.Nil(t, b)
}

func TestNewBotWithConfigurablePluginMissingConfig(t *testing.T) {
	b, err := filefairy.NewBot("fairy", config.NewViperWithDefaults()).
		WithConfigurablePluginErr("tester", func(c *config.PluginConfig) (p *filefairy.Plugin, err error) { return newPluginWithErr("") }).
		WithConfigurablePluginErr("testerClone", func(c *config.PluginConfig) (p *filefairy.Plugin, err error) { return newPluginWithErr("") }).
		Build()

	require.Error(t, err)
	assert.EqualError(t, err, "Missing plugin configuration for plugin [tester]")
	assert.Nil(t, b)
}

func TestNewBotWithConfigurablePluginValidConfig(t *testing.T) {
	c := config.NewViperWithDefaults()
	c.Set("plugins.tester", map[string]string{"enabled": "true"})

	b, err := filefairy.NewBot("fairy", c).
		WithConfigurablePluginErr("tester", func(c *config.PluginConfig) (p *filefairy.Plugin, err error) { return newPluginWithErr("") }).
		Build()

	assert.NoError(t, err)
	assert.NotNil(t, b)
}

func TestNewBotWithConfigurableCloserPluginMissingConfig(t *testing.T) {
	b, err := filefairy.NewBot("fairy", config.NewViperWithDefaults()).
		WithConfigurablePluginCloserErr("tester", func(conf *config.PluginConfig) (c io.Closer, p *filefairy.Plugin, err error) {
			p, err = newPluginWithErr("")
			return closeTester{}, p, err
		}).
		Build()

	require.Error(t, err)
	assert.EqualError(t, err, "Missing plugin configuration for plugin [tester]")
	assert.Nil(t, b)
}

func TestNewBotWithConfigurableCloserPluginValidConfig(t *testing.T) {
	c := config.NewViperWithDefaults()
	c.Set("plugins.tester", map[string]string{"enabled": "true"})

	b, err := filefairy.NewBot("fairy", c).
		WithConfigurablePluginCloserErr("tester", func(conf *config.PluginConfig) (c io.Closer, p *filefairy.Plugin, err error) {
			p, err = newPluginWithErr("")
			return closeTester{errorMsg: "closed"}, p, err
		}).
		Build()

	require.NoError(t, err)
	require.NotNil(t, b)
	assert.EqualError(t, b.Close(), "closed")
}
