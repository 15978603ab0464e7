// Package filedb stores plugin state documents as one JSON file per plugin
package filedb

import (
	"github.com/mitchellh/go-homedir"
	"github.com/orangeandblueleague/filefairy/store"
	"github.com/pkg/errors"
	"os"
	"path/filepath"
)

const documentExt = ".json"

// FileDB implements store.DocumentStorer with files under a directory
type FileDB struct {
	dir string
}

// New returns a FileDB rooted at storagePath. The directory is created if it doesn't exist
func New(storagePath string) (fdb *FileDB, err error) {
	// Expand '~' as the full home directory path if appropriate
	dir, err := homedir.Expand(storagePath)
	if err != nil {
		return nil, err
	}

	if err = os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create storage directory [%s]", dir)
	}

	fdb = new(FileDB)
	fdb.dir = dir

	return fdb, nil
}

// Path returns the file path of the document stored under name
func (fdb *FileDB) Path(name string) string {
	return filepath.Join(fdb.dir, name+documentExt)
}

// Read loads the document stored under name
func (fdb *FileDB) Read(name string) (doc store.Document, err error) {
	data, err := os.ReadFile(fdb.Path(name))
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(store.ErrNotFound, "[%s]", fdb.Path(name))
	} else if err != nil {
		return nil, errors.Wrapf(err, "failed to read [%s]", fdb.Path(name))
	}

	doc, err = store.Unmarshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, "[%s]", fdb.Path(name))
	}

	return doc, nil
}

// Write replaces the document stored under name. The content is written to a temporary
// file first and renamed over the previous document so readers never see a partial write
func (fdb *FileDB) Write(name string, doc store.Document) (err error) {
	data, err := store.Marshal(doc)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(fdb.dir, name+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "failed to create temporary file for [%s]", name)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write [%s]", tmp.Name())
	}

	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), fdb.Path(name))
}

// Close is a no-op as files aren't kept open
func (fdb *FileDB) Close() (err error) {
	return nil
}
