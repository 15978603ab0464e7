package filefairy

import (
	"context"
	"fmt"
	"github.com/nlopes/slack"
	"github.com/pkg/errors"
	"sync"
	"time"
)

const (
	defaultEventBufferSize = 100
	connectTimeout         = 30 * time.Second
)

// slackClient is implemented by any value that has the PostMessage, UpdateMessage and UploadFile methods.
//
// slack.Client implements this interface
type slackClient interface {
	PostMessage(channelID string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, err error)
	UpdateMessage(channelID, timestamp string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, rText string, err error)
	UploadFile(params slack.FileUploadParameters) (file *slack.File, err error)
}

// SlackChat implements Chat over the Slack Web API
type SlackChat struct {
	client slackClient
}

// NewSlackChat returns a Chat posting through the given client
func NewSlackChat(client slackClient) (sc *SlackChat) {
	sc = new(SlackChat)
	sc.client = client

	return sc
}

// Post implements Chat
func (sc *SlackChat) Post(channel string, text string, attachments ...slack.Attachment) (ts string, err error) {
	options := []slack.MsgOption{slack.MsgOptionText(text, false), slack.MsgOptionAsUser(true)}
	if len(attachments) > 0 {
		options = append(options, slack.MsgOptionAttachments(attachments...))
	}

	_, ts, err = sc.client.PostMessage(channel, options...)
	if err != nil {
		return "", errors.Wrap(err, fmt.Sprintf("failed to post message to channel [%s]", channel))
	}

	return ts, nil
}

// Update implements Chat
func (sc *SlackChat) Update(ts string, channel string, text string, attachments ...slack.Attachment) (err error) {
	options := []slack.MsgOption{slack.MsgOptionText(text, false), slack.MsgOptionAsUser(true)}
	if len(attachments) > 0 {
		options = append(options, slack.MsgOptionAttachments(attachments...))
	}

	if _, _, _, err = sc.client.UpdateMessage(channel, ts, options...); err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to update message [%s] in channel [%s]", ts, channel))
	}

	return nil
}

// Upload implements Chat
func (sc *SlackChat) Upload(content string, filename string, channel string) (err error) {
	if _, err = sc.client.UploadFile(slack.FileUploadParameters{Content: content, Filename: filename, Channels: []string{channel}}); err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to upload [%s] to channel [%s]", filename, channel))
	}

	return nil
}

// SlackTransport implements Transport over a Slack RTM session and the Slack Web API
type SlackTransport struct {
	*SlackChat

	api    *slack.Client
	log    SLogger
	events chan Message

	mu      sync.Mutex
	rtm     *slack.RTM
	cancel  context.CancelFunc
	alive   bool
	selfID  string
	session sync.WaitGroup
}

// NewSlackTransport creates a transport for the given slack client. No session is opened until
// Connect is called
func NewSlackTransport(api *slack.Client, l SLogger) (st *SlackTransport) {
	st = new(SlackTransport)
	st.SlackChat = NewSlackChat(api)
	st.api = api
	st.log = l
	st.events = make(chan Message, defaultEventBufferSize)

	return st
}

// Connect opens a new RTM session, closing the previous one if any. It returns once slack confirmed
// the connection, the credentials are rejected or ctx is done
func (st *SlackTransport) Connect(ctx context.Context) (url string, err error) {
	st.Close()

	rtm := st.api.NewRTM()
	go rtm.ManageConnection()

	timer := time.NewTimer(connectTimeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			rtm.Disconnect()
			return "", ctx.Err()

		case <-timer.C:
			rtm.Disconnect()
			return "", errors.Errorf("timed out after %s waiting for slack connection", connectTimeout)

		case msg := <-rtm.IncomingEvents:
			switch e := msg.Data.(type) {
			case *slack.ConnectedEvent:
				st.log.Debugf("Connected (connection counter: %d)", e.ConnectionCount)
				st.startSession(ctx, rtm, e)
				return e.Info.URL, nil

			case *slack.InvalidAuthEvent:
				rtm.Disconnect()
				return "", errors.New("invalid slack credentials")

			case *slack.ConnectionErrorEvent:
				rtm.Disconnect()
				return "", errors.Wrap(e.ErrorObj, fmt.Sprintf("failed to connect to slack (attempt %d)", e.Attempt))
			}
		}
	}
}

// Events implements Transport
func (st *SlackTransport) Events() <-chan Message {
	return st.events
}

// Alive implements Transport
func (st *SlackTransport) Alive() bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	return st.alive
}

// SelfID implements Transport
func (st *SlackTransport) SelfID() string {
	st.mu.Lock()
	defer st.mu.Unlock()

	return st.selfID
}

// Close ends the current session, if any, and waits for its receive loop to finish
func (st *SlackTransport) Close() (err error) {
	st.mu.Lock()
	rtm, cancel := st.rtm, st.cancel
	st.rtm, st.cancel, st.alive = nil, nil, false
	st.mu.Unlock()

	if rtm == nil {
		return nil
	}

	cancel()
	st.session.Wait()

	return rtm.Disconnect()
}

func (st *SlackTransport) startSession(ctx context.Context, rtm *slack.RTM, e *slack.ConnectedEvent) {
	sessionCtx, cancel := context.WithCancel(ctx)

	st.mu.Lock()
	st.rtm = rtm
	st.cancel = cancel
	st.alive = true
	if e.Info != nil && e.Info.User != nil {
		st.selfID = e.Info.User.ID
	}
	st.mu.Unlock()

	st.session.Add(1)
	go func() {
		defer st.session.Done()
		st.receive(sessionCtx, rtm)
	}()
}

// receive forwards the session's messages to the events channel until ctx is done
func (st *SlackTransport) receive(ctx context.Context, rtm *slack.RTM) {
	for {
		select {
		case <-ctx.Done():
			return

		case msg := <-rtm.IncomingEvents:
			switch e := msg.Data.(type) {
			case *slack.ConnectedEvent:
				st.setAlive(true)

			case *slack.DisconnectedEvent:
				st.log.Printf("Disconnected (intentional: %t): %v", e.Intentional, e.Cause)
				st.setAlive(false)

			case *slack.InvalidAuthEvent:
				st.log.Printf("Invalid credentials")
				st.setAlive(false)

			case *slack.RTMError:
				st.log.Printf("Error: %s", e.Error())

			case *slack.MessageEvent:
				m, ok := toMessage(e)
				if !ok {
					continue
				}

				select {
				case st.events <- m:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func (st *SlackTransport) setAlive(alive bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.alive = alive
}

// toMessage converts a slack message event to the message handed to plugins. Acknowledgements of
// our own messages and deletions are dropped. Edited messages carry the new text and the user who
// edited them
func toMessage(e *slack.MessageEvent) (m Message, ok bool) {
	if e.ReplyTo > 0 || e.Type != "message" || e.SubType == "message_deleted" {
		return m, false
	}

	m = Message{Msg: e.Msg}
	if e.SubType == "message_changed" && e.SubMessage != nil {
		m.Text = e.SubMessage.Text
		m.User = e.SubMessage.User
	}

	return m, true
}
