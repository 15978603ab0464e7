package filefairy

import (
	"context"
	"github.com/nlopes/slack"
)

// Chat is implemented by any value that can post, update and upload to chat channels. It is
// injected into every plugin on registration
type Chat interface {
	// Post sends a new message to a channel and returns its timestamp
	Post(channel string, text string, attachments ...slack.Attachment) (ts string, err error)

	// Update replaces the content of a message previously posted
	Update(ts string, channel string, text string, attachments ...slack.Attachment) (err error)

	// Upload shares content as a file in a channel
	Upload(content string, filename string, channel string) (err error)
}

// Transport is the chat session driven by filefairy. Connect requests a new session and returns
// its url. Once connected, incoming messages are delivered on Events and Alive reports whether the
// session is still usable
type Transport interface {
	Chat

	Connect(ctx context.Context) (url string, err error)

	Events() <-chan Message

	Alive() bool

	// SelfID returns the identifier of the bot user, known once connected
	SelfID() string
}
