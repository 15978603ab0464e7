package main

import (
	"bytes"
	"github.com/orangeandblueleague/filefairy"
	"github.com/orangeandblueleague/filefairy/config"
	"github.com/orangeandblueleague/filefairy/plugins"
	"github.com/orangeandblueleague/filefairy/store"
	"github.com/orangeandblueleague/filefairy/store/inmemorydb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io/ioutil"
	"path/filepath"
	"testing"
)

func TestSeedStates(t *testing.T) {
	storer := inmemorydb.New(nil)
	require.NoError(t, storer.Write("Existing", store.Document{"count": 1}))

	var out bytes.Buffer
	require.NoError(t, seedStates(&out, storer, []string{"Existing", plugins.PollerPluginName}))

	assert.Equal(t, "State [Existing] already exists\nCreated state [Poller]\n", out.String())

	doc, err := storer.Read(plugins.PollerPluginName)
	require.NoError(t, err)
	assert.Equal(t, store.Document{}, doc)

	doc, err = storer.Read("Existing")
	require.NoError(t, err)
	assert.Equal(t, store.Document{"count": float64(1)}, doc)
}

func TestNewStorer(t *testing.T) {
	v := config.NewViperWithDefaults()

	v.Set(config.StorageTypeKey, config.MemoryStorage)
	storer, err := newStorer(v)
	require.NoError(t, err)
	assert.NoError(t, storer.Close())

	v.Set(config.StorageTypeKey, config.FileStorage)
	v.Set(config.StoragePathKey, t.TempDir())
	storer, err = newStorer(v)
	require.NoError(t, err)
	require.NoError(t, storer.Write("Poller", store.Document{"resources": map[string]interface{}{}}))
	assert.FileExists(t, filepath.Join(v.GetString(config.StoragePathKey), "Poller.json"))
	assert.NoError(t, storer.Close())

	v.Set(config.StorageTypeKey, "floppy")
	_, err = newStorer(v)
	assert.EqualError(t, err, "Unknown storage type [floppy], should be one of [file, leveldb, datastore, memory]")
}

func TestLoadConfigLayersDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filefairy.yml")
	require.NoError(t, ioutil.WriteFile(path, []byte("controlChannel: C0\nplugins:\n  announcer:\n    channel: C1\n"), 0644))

	v, err := loadConfig(&rootFlags{configPath: path, debug: true})
	require.NoError(t, err)

	assert.Equal(t, "C0", v.GetString(config.ControlChannelKey))
	assert.True(t, v.GetBool(config.DebugKey))
	assert.Equal(t, 1, v.GetInt(config.MaxNotifyDepthKey))
	assert.True(t, hasPluginConfig(v, plugins.AnnouncerPluginName))
	assert.False(t, hasPluginConfig(v, plugins.PollerPluginName))
}

func TestLoadConfigWithMissingFile(t *testing.T) {
	_, err := loadConfig(&rootFlags{configPath: filepath.Join(t.TempDir(), "missing.yml")})

	assert.Error(t, err)
}

func TestNewBotWithConfiguredPlugins(t *testing.T) {
	v := config.NewViperWithDefaults()
	v.Set("plugins.announcer", map[string]interface{}{"channel": "C1"})

	ff, err := newBot(v, inmemorydb.New(nil))
	require.NoError(t, err)

	_, ok := ff.Plugin(plugins.VersionerPluginName)
	assert.True(t, ok)
	_, ok = ff.Plugin(plugins.AnnouncerPluginName)
	assert.True(t, ok)
	_, ok = ff.Plugin(plugins.PollerPluginName)
	assert.False(t, ok)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "filefairy "+filefairy.VERSION+"\n", out.String())
}
