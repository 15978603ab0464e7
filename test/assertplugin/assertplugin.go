package assertplugin

import (
	"github.com/nlopes/slack"
	"github.com/orangeandblueleague/filefairy"
	"github.com/orangeandblueleague/filefairy/test/capture"
	"log"
	"strings"
	"testing"
)

// Asserter represents a plugin driver/asserter and holds the control channel that tests are using when
// sending test messages for processing
type Asserter struct {
	controlChannel string
	logger         *log.Logger
}

// New creates a new asserter recognizing commands sent to controlChannel
func New(controlChannel string, options ...Option) (a *Asserter) {
	a = new(Asserter)
	a.controlChannel = controlChannel

	for _, option := range options {
		option(a)
	}

	return a
}

// Option defines an option for the Asserter
type Option func(*Asserter)

// OptionLog sets a logger for the asserter such that this logger is attached to the plugin when driven by
// the asserter
func OptionLog(logger *log.Logger) func(*Asserter) {
	return func(a *Asserter) {
		a.logger = logger
	}
}

// ResultValidator is a function to do further validation of the response, error and messages posted resulting
// from a plugin processing a message. The return value is meant to be true if validation
// is successful and false otherwise (following the testify convention)
type ResultValidator func(t *testing.T, r *filefairy.Response, err error, posts []capture.Post) bool

// Attach injects the services filefairy provides to plugins on registration and returns the captor
// recording what the plugin posts
func (a *Asserter) Attach(p *filefairy.Plugin) (cc *capture.ChatCaptor) {
	cc = capture.NewChatCaptor()
	p.Chat = cc
	p.Logger = filefairy.NewSLogger(getLogger(a), true)

	return cc
}

// RespondsAndPosts drives a plugin with a message and collects its Response and what it posted. Once all of those
// have been collected, it passes handling to a validator to assert the expected results. It follows the style of
// github.com/stretchr/testify/assert as far as returning true/false to indicate success for further nested testing.
func (a *Asserter) RespondsAndPosts(t *testing.T, p *filefairy.Plugin, m *slack.Msg, validate ResultValidator) (valid bool) {
	cc := a.Attach(p)

	r, err := p.HandleMessage(&filefairy.Message{Msg: *m}, a.controlChannel)

	return validate(t, r, err, cc.Posts())
}

func getLogger(a *Asserter) (logger *log.Logger) {
	if a.logger != nil {
		return a.logger
	}

	var b strings.Builder
	return log.New(&b, "", 0)
}
