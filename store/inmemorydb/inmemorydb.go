package inmemorydb

import (
	"github.com/orangeandblueleague/filefairy/store"
	"github.com/pkg/errors"
	"sync"
)

// InMemoryDB implements the store.DocumentStorer interface and keeps
// a copy of every document in memory while writing through
// to the wrapped (persistent) DocumentStorer
type InMemoryDB struct {
	persistentStorer store.DocumentStorer
	data             map[string][]byte
	mu               sync.RWMutex
}

// New returns a new instance of InMemoryDB wrapping the persistent DocumentStorer. A nil
// persistentStorer makes a purely in-memory database
func New(persistentStorer store.DocumentStorer) (imdb *InMemoryDB) {
	imdb = new(InMemoryDB)
	imdb.persistentStorer = persistentStorer
	imdb.data = make(map[string][]byte)

	return imdb
}

// Read returns a copy of the document stored under name. A document not yet in memory is
// loaded from the persistent storer
func (imdb *InMemoryDB) Read(name string) (doc store.Document, err error) {
	imdb.mu.RLock()
	data, ok := imdb.data[name]
	imdb.mu.RUnlock()

	if ok {
		return store.Unmarshal(data)
	}

	if imdb.persistentStorer == nil {
		return nil, errors.Wrapf(store.ErrNotFound, "[%s] in memory", name)
	}

	doc, err = imdb.persistentStorer.Read(name)
	if err != nil {
		return nil, err
	}

	if data, err = store.Marshal(doc); err != nil {
		return nil, err
	}

	imdb.mu.Lock()
	imdb.data[name] = data
	imdb.mu.Unlock()

	return store.Unmarshal(data)
}

// Write stores the document. It is persisted to the persistent storage first and then
// kept in memory
func (imdb *InMemoryDB) Write(name string, doc store.Document) (err error) {
	data, err := store.Marshal(doc)
	if err != nil {
		return err
	}

	if imdb.persistentStorer != nil {
		if err = imdb.persistentStorer.Write(name, doc); err != nil {
			return err
		}
	}

	imdb.mu.Lock()
	imdb.data[name] = data
	imdb.mu.Unlock()

	return nil
}

// Close closes the underlying storer
func (imdb *InMemoryDB) Close() (err error) {
	if imdb.persistentStorer == nil {
		return nil
	}

	return imdb.persistentStorer.Close()
}
