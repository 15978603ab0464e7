package plugins

import (
	"fmt"
	"github.com/orangeandblueleague/filefairy"
	"github.com/orangeandblueleague/filefairy/config"
	"github.com/pkg/errors"
)

const (
	// AnnouncerPluginName holds identifying name for the announcer plugin
	AnnouncerPluginName = "Announcer"

	// ChannelKey is the channel the announcements are posted to
	ChannelKey = "channel"

	// MessagesKey is the map of notification names to the message announcing them
	MessagesKey = "messages"
)

// Announcer posts a message to a channel when it is notified of one of the configured
// notifications
type Announcer struct {
	*filefairy.Plugin

	channel  string
	messages map[filefairy.Notification]string
}

// NewAnnouncer creates a new instance of the announcer plugin
func NewAnnouncer(c *config.PluginConfig) (p *filefairy.Plugin, err error) {
	a := new(Announcer)

	a.channel = c.GetString(ChannelKey)
	if a.channel == "" {
		return nil, fmt.Errorf("Missing %s config key: %s", AnnouncerPluginName, ChannelKey)
	}

	a.messages = make(map[filefairy.Notification]string)
	for name, text := range c.GetStringMapString(MessagesKey) {
		n, err := filefairy.ParseNotification(name)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("invalid %s config key: %s", AnnouncerPluginName, MessagesKey))
		}

		a.messages[n] = text
	}

	a.Plugin = &filefairy.Plugin{Name: AnnouncerPluginName, Description: "Announces league events", OnNotify: a.announce}

	return a.Plugin, nil
}

func (a *Announcer) announce(n filefairy.Notification) (r *filefairy.Response, err error) {
	text, ok := a.messages[n]
	if !ok {
		return filefairy.Empty(), nil
	}

	if _, err = a.Chat.Post(a.channel, text); err != nil {
		a.Logger.Printf("Failed to announce [%s]: %v", n, err)
	}

	return filefairy.Empty(), nil
}
