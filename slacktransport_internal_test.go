package filefairy

import (
	"github.com/nlopes/slack"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

type postCall struct {
	channel string
	options int
}

type fakeSlackClient struct {
	posts   []postCall
	updates []string
	uploads []slack.FileUploadParameters
	err     error
}

func (fc *fakeSlackClient) PostMessage(channelID string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, err error) {
	fc.posts = append(fc.posts, postCall{channel: channelID, options: len(options)})
	return channelID, "1571000000.000100", fc.err
}

func (fc *fakeSlackClient) UpdateMessage(channelID, timestamp string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, rText string, err error) {
	fc.updates = append(fc.updates, channelID+"/"+timestamp)
	return channelID, timestamp, "", fc.err
}

func (fc *fakeSlackClient) UploadFile(params slack.FileUploadParameters) (file *slack.File, err error) {
	fc.uploads = append(fc.uploads, params)
	return &slack.File{}, fc.err
}

func TestSlackChatPost(t *testing.T) {
	fc := new(fakeSlackClient)
	sc := NewSlackChat(fc)

	ts, err := sc.Post("C1", "Final: BOS 5, NYY 3")
	require.NoError(t, err)
	assert.Equal(t, "1571000000.000100", ts)

	_, err = sc.Post("C1", "Box score", slack.Attachment{Title: "BOS @ NYY"})
	require.NoError(t, err)

	assert.Equal(t, []postCall{{channel: "C1", options: 2}, {channel: "C1", options: 3}}, fc.posts)
}

func TestSlackChatErrors(t *testing.T) {
	fc := &fakeSlackClient{err: errors.New("channel_not_found")}
	sc := NewSlackChat(fc)

	_, err := sc.Post("C9", "hello")
	assert.EqualError(t, err, "failed to post message to channel [C9]: channel_not_found")

	err = sc.Update("1.000100", "C9", "hello again")
	assert.EqualError(t, err, "failed to update message [1.000100] in channel [C9]: channel_not_found")

	err = sc.Upload("content", "standings.txt", "C9")
	assert.EqualError(t, err, "failed to upload [standings.txt] to channel [C9]: channel_not_found")
}

func TestSlackChatUpdateAndUpload(t *testing.T) {
	fc := new(fakeSlackClient)
	sc := NewSlackChat(fc)

	require.NoError(t, sc.Update("1.000100", "C1", "edited"))
	require.NoError(t, sc.Upload("AL East\nNYY 10", "standings.txt", "C1"))

	assert.Equal(t, []string{"C1/1.000100"}, fc.updates)
	require.Len(t, fc.uploads, 1)
	assert.Equal(t, slack.FileUploadParameters{Content: "AL East\nNYY 10", Filename: "standings.txt", Channels: []string{"C1"}}, fc.uploads[0])
}

func TestToMessage(t *testing.T) {
	m, ok := toMessage(&slack.MessageEvent{Msg: slack.Msg{Type: "message", Channel: "C1", User: "U1", Text: "hello", Timestamp: "1.000100"}})
	require.True(t, ok)
	assert.Equal(t, "hello", m.Text)
	assert.Equal(t, "U1", m.User)

	m, ok = toMessage(&slack.MessageEvent{Msg: slack.Msg{Type: "message", SubType: "message_changed", Channel: "C1", Timestamp: "1.000200"}, SubMessage: &slack.Msg{User: "U2", Text: "hello, edited"}})
	require.True(t, ok)
	assert.Equal(t, "hello, edited", m.Text)
	assert.Equal(t, "U2", m.User)
	assert.Equal(t, "1.000200", m.Timestamp)
}

func TestToMessageDropsRepliesAndDeletions(t *testing.T) {
	tests := map[string]*slack.MessageEvent{
		"reply":   {Msg: slack.Msg{Type: "message", ReplyTo: 3}},
		"deleted": {Msg: slack.Msg{Type: "message", SubType: "message_deleted"}},
		"typing":  {Msg: slack.Msg{Type: "user_typing"}},
	}

	for name, e := range tests {
		t.Run(name, func(t *testing.T) {
			_, ok := toMessage(e)
			assert.False(t, ok)
		})
	}
}
