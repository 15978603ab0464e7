package filefairy

import (
	"fmt"
	"github.com/pkg/errors"
	"strings"
)

// Notification is a system-wide signal a plugin can broadcast to every other plugin by
// naming it in the Notify list of a Response
type Notification int

// Notification kinds. The set is closed: a Response naming anything else is rejected
const (
	// Base signals general activity (i.e. a command was executed)
	Base Notification = iota + 1
	// ExportEmail signals a new league export email cycle
	ExportEmail
	// Daily is broadcast once a day by the engine itself
	Daily
	// FileDownload signals a league file download is available
	FileDownload
	// FileFinish signals a league file download completed
	FileFinish
	// FileStart signals a league file download started
	FileStart
	// LiveSim signals a live sim update
	LiveSim
	// Other is the catch-all
	Other
)

var notificationNames = map[Notification]string{
	Base:         "base",
	ExportEmail:  "exportEmail",
	Daily:        "daily",
	FileDownload: "fileDownload",
	FileFinish:   "fileFinish",
	FileStart:    "fileStart",
	LiveSim:      "liveSim",
	Other:        "other",
}

// Valid returns true if n is one of the known notification kinds
func (n Notification) Valid() bool {
	_, ok := notificationNames[n]
	return ok
}

// String returns the name of the notification kind
func (n Notification) String() string {
	if name, ok := notificationNames[n]; ok {
		return name
	}

	return fmt.Sprintf("notification(%d)", int(n))
}

// ParseNotification returns the Notification with the given name (case insensitive)
func ParseNotification(name string) (n Notification, err error) {
	for k, v := range notificationNames {
		if strings.EqualFold(v, name) {
			return k, nil
		}
	}

	return 0, errors.Wrapf(ErrUnknownNotification, "[%s]", name)
}
