package store

import (
	"fmt"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	leveldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"path/filepath"
)

// LevelDB holds a database name and its leveldb instance. Each document lives under
// its own key
type LevelDB struct {
	Name     string
	database *leveldb.DB
}

// NewLevelDB instantiates and opens a new LevelDB instance backed by a leveldb database. If the
// leveldb database doesn't exist, one is created
func NewLevelDB(name string, storagePath string) (ldb *LevelDB, err error) {
	// Expand '~' as the full home directory path if appropriate
	path, err := homedir.Expand(storagePath)
	if err != nil {
		return nil, err
	}

	fullPath := filepath.Join(path, name)
	db, err := leveldb.OpenFile(fullPath, nil)

	if _, ok := err.(*leveldberrors.ErrCorrupted); ok {
		return nil, errors.Wrap(err, fmt.Sprintf("leveldb corrupted. Consider deleting [%s] and restarting if you don't mind losing data", fullPath))
	} else if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to open file with path [%s]", fullPath))
	}

	return &LevelDB{name, db}, nil
}

// Close closes the LevelDB
func (ldb *LevelDB) Close() (err error) {
	return ldb.database.Close()
}

// Read returns the document stored under name or ErrNotFound
func (ldb *LevelDB) Read(name string) (doc Document, err error) {
	data, err := ldb.database.Get([]byte(name), nil)
	if err == leveldb.ErrNotFound {
		return nil, errors.Wrapf(ErrNotFound, "[%s] in leveldb [%s]", name, ldb.Name)
	} else if err != nil {
		return nil, err
	}

	return Unmarshal(data)
}

// Write replaces the document stored under name
func (ldb *LevelDB) Write(name string, doc Document) (err error) {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}

	return ldb.database.Put([]byte(name), data, nil)
}

// Names returns the names of all documents in the database
func (ldb *LevelDB) Names() (names []string, err error) {
	names = make([]string, 0)
	iter := ldb.database.NewIterator(nil, nil)
	for iter.Next() {
		names = append(names, string(iter.Key()))
	}

	iter.Release()
	err = iter.Error()

	return names, err
}
