// Package config provides the configuration keys, defaults and helpers to load a
// filefairy configuration with viper
package config

import (
	"fmt"
	"github.com/spf13/viper"
	"strings"
	"time"
)

// Configuration keys
const (
	TokenKey                  = "token"                         // Slack token, string
	DebugKey                  = "debug"                         // Debug mode, boolean
	VerboseKey                = "verbose"                       // Announce plugin failures in the control channel, boolean
	ControlChannelKey         = "controlChannel"                // Channel id where in-chat commands are recognized, string
	TickIntervalKey           = "tickInterval"                  // Interval between runs of the runnable plugins, duration
	TimeLocationKey           = "timeLocation"                  // The time.Location for the daily notification, string. Defaults to "Local"
	DailyAtKey                = "dailyAt"                       // Time of day ("10:00") of the daily notification. Empty disables it
	MessageDedupeCacheSizeKey = "messageDedupeCacheSize"        // Number of recent message ids remembered to drop redeliveries, int
	MaxNotifyDepthKey         = "maxNotifyDepth"                // How many levels of notification fan-out are applied, int
	StorageKey                = "storage"                       // Storage configuration
	StorageTypeKey            = "storage.type"                  // One of "file", "leveldb", "datastore" or "memory"
	StoragePathKey            = "storage.path"                  // Directory of the file and leveldb storage
	StorageProjectIDKey       = "storage.gcloudProjectID"       // Google Cloud project id of the datastore storage
	StorageCredentialsKey     = "storage.gcloudCredentialsFile" // Google Cloud credentials file of the datastore storage
	RenderTemplateDirKey      = "render.templateDir"            // Directory holding the html templates
	RenderOutputDirKey        = "render.outputDir"              // Local directory receiving rendered pages
	RenderPublishCommandKey   = "render.publishCommand"         // Command (and leading args) used to publish a rendered page, string slice
	RenderPublishDestKey      = "render.publishDestination"     // Remote destination prefix. Empty disables publishing
	RenderPublishTimeoutKey   = "render.publishTimeout"         // Timeout of one publish command, duration
	PluginsKey                = "plugins"                       // Root key of the plugins configuration
)

// Storage types
const (
	FileStorage      = "file"
	LevelDBStorage   = "leveldb"
	DatastoreStorage = "datastore"
	MemoryStorage    = "memory"
)

const (
	defaultTickInterval           = 2 * time.Second
	defaultTimeLocation           = "Local"
	defaultMessageDedupeCacheSize = 1000
	defaultMaxNotifyDepth         = 1
	defaultStorageType            = FileStorage
	defaultStoragePath            = "~/.filefairy/data"
	defaultTemplateDir            = "templates"
	defaultOutputDir              = "~/.filefairy/html"
	defaultPublishTimeout         = 30 * time.Second
)

var defaultPublishCommand = []string{"scp", "-q"}

// PluginConfig is a sub-viper holding the configuration of one plugin
type PluginConfig = viper.Viper

// NewViperWithDefaults creates a new viper instance with defaults
func NewViperWithDefaults() (v *viper.Viper) {
	v = viper.New()
	setDefaults(v)

	return v
}

// LayerConfigWithDefaults sets the defaults on an existing viper instance. Values
// already set take precedence
func LayerConfigWithDefaults(v *viper.Viper) (lv *viper.Viper) {
	setDefaults(v)

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(DebugKey, false)
	v.SetDefault(VerboseKey, false)
	v.SetDefault(TickIntervalKey, defaultTickInterval)
	v.SetDefault(TimeLocationKey, defaultTimeLocation)
	v.SetDefault(DailyAtKey, "")
	v.SetDefault(MessageDedupeCacheSizeKey, defaultMessageDedupeCacheSize)
	v.SetDefault(MaxNotifyDepthKey, defaultMaxNotifyDepth)
	v.SetDefault(StorageTypeKey, defaultStorageType)
	v.SetDefault(StoragePathKey, defaultStoragePath)
	v.SetDefault(RenderTemplateDirKey, defaultTemplateDir)
	v.SetDefault(RenderOutputDirKey, defaultOutputDir)
	v.SetDefault(RenderPublishCommandKey, defaultPublishCommand)
	v.SetDefault(RenderPublishDestKey, "")
	v.SetDefault(RenderPublishTimeoutKey, defaultPublishTimeout)
}

// GetTimeLocation returns the time location set in the configuration. If the location
// name is invalid, an error is returned
func GetTimeLocation(v *viper.Viper) (timeLoc *time.Location, err error) {
	timeLocName := v.GetString(TimeLocationKey)
	timeLoc, err = time.LoadLocation(timeLocName)
	if err != nil {
		return nil, fmt.Errorf("Unable to load time location [%s]: %v", timeLocName, err)
	}

	return timeLoc, nil
}

// GetPluginConfig returns the viper sub-tree for a plugin's configuration
func GetPluginConfig(v *viper.Viper, name string) (pc *PluginConfig, err error) {
	pc = v.Sub(PluginsKey + "." + strings.ToLower(name))
	if pc == nil {
		return nil, fmt.Errorf("Missing plugin configuration for plugin [%s]", name)
	}

	return pc, nil
}
