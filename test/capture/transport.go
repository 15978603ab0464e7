package capture

import (
	"context"
	"github.com/orangeandblueleague/filefairy"
	"github.com/nlopes/slack"
	"sync"
)

// Transport is an in-memory chat session. Messages given to Send are delivered to the engine
// and everything the engine or plugins post is recorded by the embedded ChatCaptor
type Transport struct {
	*ChatCaptor

	mu          sync.Mutex
	events      chan filefairy.Message
	alive       bool
	selfID      string
	connects    int
	connectErrs []error
}

// NewTransport returns a new Transport for a bot with the given user id
func NewTransport(selfID string) (t *Transport) {
	t = new(Transport)
	t.ChatCaptor = NewChatCaptor()
	t.events = make(chan filefairy.Message, 100)
	t.selfID = selfID

	return t
}

// FailNextConnects makes the next connection attempts fail with the given errors, in order
func (t *Transport) FailNextConnects(errs ...error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.connectErrs = append(t.connectErrs, errs...)
}

// Connect implements filefairy.Transport
func (t *Transport) Connect(ctx context.Context) (url string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.connects = t.connects + 1
	if len(t.connectErrs) > 0 {
		err, t.connectErrs = t.connectErrs[0], t.connectErrs[1:]
		return "", err
	}

	t.alive = true
	return "wss://chat.test/session", nil
}

// Connects returns the number of connection attempts
func (t *Transport) Connects() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.connects
}

// Events implements filefairy.Transport
func (t *Transport) Events() <-chan filefairy.Message {
	return t.events
}

// Alive implements filefairy.Transport
func (t *Transport) Alive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.alive
}

// Kill simulates the session dying
func (t *Transport) Kill() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.alive = false
}

// SelfID implements filefairy.Transport
func (t *Transport) SelfID() string {
	return t.selfID
}

// Send delivers a message to the engine
func (t *Transport) Send(channel string, user string, text string, ts string) {
	t.events <- filefairy.Message{Msg: slack.Msg{Type: "message", Channel: channel, User: user, Text: text, Timestamp: ts}}
}
