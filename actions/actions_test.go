package actions_test

import (
	"fmt"
	"github.com/orangeandblueleague/filefairy"
	"github.com/orangeandblueleague/filefairy/actions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestNewCommandWithDefaults(t *testing.T) {
	c := actions.NewCommand("check").Build()

	assert.Equal(t, "check", c.Name)
	assert.False(t, c.Hidden)
	require.NotNil(t, c.Handler)
	assert.NoError(t, c.Handler(&filefairy.CommandCall{}))
}

func TestNewCommandWithHandler(t *testing.T) {
	var args []string
	c := actions.NewCommand("check").
		WithHandler(func(call *filefairy.CommandCall) error {
			args = call.Args
			return fmt.Errorf("failed")
		}).
		Build()

	err := c.Handler(&filefairy.CommandCall{Args: []string{"a", "b"}})

	assert.EqualError(t, err, "failed")
	assert.Equal(t, []string{"a", "b"}, args)
}

func TestNewCommandWithUsage(t *testing.T) {
	c := actions.NewCommand("check").
		WithUsage("Poller.check()").
		Build()

	assert.Equal(t, "Poller.check()", c.Usage)
}

func TestNewCommandWithDescription(t *testing.T) {
	c := actions.NewCommand("check").
		WithDescription("Check now").
		Build()

	assert.Equal(t, "Check now", c.Description)
}

func TestNewCommandWithDescriptionf(t *testing.T) {
	c := actions.NewCommand("check").
		WithDescriptionf("Check %d urls", 3).
		Build()

	assert.Equal(t, "Check 3 urls", c.Description)
}

func TestNewCommandHidden(t *testing.T) {
	c := actions.NewCommand("check").
		Hidden().
		Build()

	assert.True(t, c.Hidden)
}

func TestCommandString(t *testing.T) {
	c := actions.NewCommand("check").
		WithUsage("Poller.check()").
		WithDescription("Check now").
		Build()

	assert.Equal(t, "`Poller.check()` - Check now", c.String())
}
