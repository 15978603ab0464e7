package filefairy

import (
	"github.com/pkg/errors"
)

var (
	// ErrUnknownNotification is returned when a Response names a notification that isn't one
	// of the known kinds
	ErrUnknownNotification = errors.New("unknown notification")

	// ErrInvalidPatch is returned when a Patch is missing its destination or key
	ErrInvalidPatch = errors.New("invalid patch")

	// ErrDuplicatePlugin is returned when two plugins are registered under the same name
	ErrDuplicatePlugin = errors.New("duplicate plugin name")

	// ErrInvalidCommand is returned when a command can't be exposed in chat (i.e. private name)
	ErrInvalidCommand = errors.New("invalid command")

	// ErrNotConnected is returned by transports used before a session is established
	ErrNotConnected = errors.New("not connected")
)
