package store_test

import (
	"github.com/orangeandblueleague/filefairy/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io/ioutil"
	"os"
	"testing"
)

func TestNewLevelDBWithInvalidPath(t *testing.T) {
	tmpfile, err := ioutil.TempFile("", "example")
	require.NoError(t, err)

	defer os.Remove(tmpfile.Name()) // clean up

	_, err = store.NewLevelDB("test", tmpfile.Name())
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "failed to open")
	}
}

func TestNewLevelDB(t *testing.T) {
	dir, err := ioutil.TempDir("", "tmpTest")
	require.NoError(t, err)

	defer os.RemoveAll(dir)

	ldb, err := store.NewLevelDB("test", dir)
	require.NoError(t, err)
	defer ldb.Close()

	assert.Equal(t, "test", ldb.Name)
}

func TestReadAfterCloseShouldResultInError(t *testing.T) {
	dir, err := ioutil.TempDir("", "tmpTest")
	require.NoError(t, err)

	defer os.RemoveAll(dir)

	ldb, err := store.NewLevelDB("test", dir)
	require.NoError(t, err)

	ldb.Close()
	_, err = ldb.Read("poller")

	assert.Error(t, err)
}

func TestReadMissingDocument(t *testing.T) {
	dir, err := ioutil.TempDir("", "tmpTest")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	ldb, err := store.NewLevelDB("test", dir)
	require.NoError(t, err)
	defer ldb.Close()

	_, err = ldb.Read("poller")
	assert.True(t, store.IsNotFound(err))
}

func TestWriteThenRead(t *testing.T) {
	dir, err := ioutil.TempDir("", "tmpTest")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	var ds store.DocumentStorer
	ds, err = store.NewLevelDB("test", dir)
	require.NoError(t, err)
	defer ds.Close()

	doc := store.Document{"count": float64(3), "teams": []interface{}{"T31", "T45"}, "nested": map[string]interface{}{"k": "v"}}
	err = ds.Write("exporter", doc)
	require.NoError(t, err)

	read, err := ds.Read("exporter")
	require.NoError(t, err)

	assert.Equal(t, doc, read)

	names, err := ds.(*store.LevelDB).Names()
	assert.NoError(t, err)
	assert.Equal(t, []string{"exporter"}, names)
}
