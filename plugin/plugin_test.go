package plugin_test

import (
	"github.com/orangeandblueleague/filefairy"
	"github.com/orangeandblueleague/filefairy/actions"
	"github.com/orangeandblueleague/filefairy/plugin"
	"github.com/orangeandblueleague/filefairy/store/inmemorydb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestDefaultNewPlugin(t *testing.T) {
	p := plugin.New("Loopy").Build()

	require.NotNil(t, p)
	assert.Equal(t, "Loopy", p.Name)
	assert.True(t, p.Enabled())
	assert.Empty(t, p.Commands)
	assert.Equal(t, filefairy.Capability(0), p.Capabilities())
}

func TestPluginWithManyCommands(t *testing.T) {
	p := plugin.New("Loopy").
		WithCommand(actions.NewCommand("command1").Build()).
		WithCommand(actions.NewCommand("command2").Build()).
		Build()

	require.Len(t, p.Commands, 2)
	assert.Equal(t, "command1", p.Commands[0].Name)
	assert.Equal(t, "command2", p.Commands[1].Name)
	assert.True(t, p.Has(filefairy.Messageable))
}

func TestPluginCapabilities(t *testing.T) {
	storer := inmemorydb.New(nil)
	require.NoError(t, storer.Write("Loopy", map[string]interface{}{}))
	state, err := filefairy.NewState("Loopy", storer)
	require.NoError(t, err)

	p := plugin.New("Loopy").
		WithDescription("Loops").
		WithRun(func(ctx filefairy.RunContext) (*filefairy.Response, error) { return filefairy.Empty(), nil }).
		WithNotifyHandler(func(n filefairy.Notification) (*filefairy.Response, error) { return filefairy.Empty(), nil }).
		WithRender(func(ctx filefairy.RenderContext) ([]filefairy.RenderItem, error) { return nil, nil }).
		WithState(state).
		Build()

	assert.Equal(t, "Loops", p.Description)
	assert.True(t, p.Has(filefairy.Runnable))
	assert.True(t, p.Has(filefairy.Notifiable))
	assert.True(t, p.Has(filefairy.Renderable))
	assert.True(t, p.Has(filefairy.Serializable))
	assert.False(t, p.Has(filefairy.Messageable))
}

func TestPluginWithMessageHandler(t *testing.T) {
	p := plugin.New("Loopy").
		WithMessageHandler(func(m *filefairy.Message) (*filefairy.Response, error) { return filefairy.Empty(), nil }).
		Build()

	assert.True(t, p.Has(filefairy.Messageable))
	assert.Empty(t, p.Commands)
}

func TestDisabledPlugin(t *testing.T) {
	p := plugin.New("Loopy").
		WithSetup(func() (*filefairy.Response, error) { return filefairy.Empty(), nil }).
		Disabled().
		Build()

	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Setup)

	p.Enable()
	assert.True(t, p.Enabled())
}
