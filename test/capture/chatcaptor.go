// Package capture provides in-memory implementations of the filefairy collaborators that record
// what plugins and the engine send for post-execution validation
package capture

import (
	"github.com/nlopes/slack"
	"strconv"
	"sync"
)

// Post is a message posted to a channel
type Post struct {
	Channel     string
	Text        string
	Attachments []slack.Attachment
	Timestamp   string
}

// Update is an update of a previously posted message
type Update struct {
	Timestamp   string
	Channel     string
	Text        string
	Attachments []slack.Attachment
}

// Upload is a file shared in a channel
type Upload struct {
	Content  string
	Filename string
	Channel  string
}

// ChatCaptor records posts, updates and uploads. It is safe for concurrent use
type ChatCaptor struct {
	mu      sync.Mutex
	posts   []Post
	updates []Update
	uploads []Upload
	nextTS  int
}

// NewChatCaptor returns a new initialized ChatCaptor
func NewChatCaptor() (cc *ChatCaptor) {
	cc = new(ChatCaptor)
	cc.posts = make([]Post, 0)
	cc.updates = make([]Update, 0)
	cc.uploads = make([]Upload, 0)

	return cc
}

// Post records a message and returns a timestamp unique to this captor
func (cc *ChatCaptor) Post(channel string, text string, attachments ...slack.Attachment) (ts string, err error) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	cc.nextTS = cc.nextTS + 1
	ts = strconv.Itoa(cc.nextTS) + ".000000"
	cc.posts = append(cc.posts, Post{Channel: channel, Text: text, Attachments: attachments, Timestamp: ts})

	return ts, nil
}

// Update records a message update
func (cc *ChatCaptor) Update(ts string, channel string, text string, attachments ...slack.Attachment) (err error) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	cc.updates = append(cc.updates, Update{Timestamp: ts, Channel: channel, Text: text, Attachments: attachments})
	return nil
}

// Upload records a file upload
func (cc *ChatCaptor) Upload(content string, filename string, channel string) (err error) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	cc.uploads = append(cc.uploads, Upload{Content: content, Filename: filename, Channel: channel})
	return nil
}

// Posts returns a copy of the recorded posts
func (cc *ChatCaptor) Posts() (posts []Post) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	return append([]Post{}, cc.posts...)
}

// PostsTo returns the text of the messages posted to a channel
func (cc *ChatCaptor) PostsTo(channel string) (texts []string) {
	texts = make([]string, 0)
	for _, p := range cc.Posts() {
		if p.Channel == channel {
			texts = append(texts, p.Text)
		}
	}

	return texts
}

// Updates returns a copy of the recorded updates
func (cc *ChatCaptor) Updates() (updates []Update) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	return append([]Update{}, cc.updates...)
}

// Uploads returns a copy of the recorded uploads
func (cc *ChatCaptor) Uploads() (uploads []Upload) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	return append([]Upload{}, cc.uploads...)
}
