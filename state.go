package filefairy

import (
	"fmt"
	"github.com/orangeandblueleague/filefairy/store"
	"github.com/pkg/errors"
	"io/ioutil"
	"log"
)

// State is the persisted document of a Serializable plugin. Between a Read and the next Write,
// the in-memory copy is the sole source of truth
type State struct {
	name     string
	storer   store.DocumentStorer
	doc      store.Document
	revision uint64
	log      SLogger
}

// NewState loads the document stored under name. A missing or unparsable document is an error:
// the plugin owning it must not be installed
func NewState(name string, storer store.DocumentStorer) (s *State, err error) {
	s = new(State)
	s.name = name
	s.storer = storer
	s.log = NewSLogger(log.New(ioutil.Discard, "", 0), false)

	if err = s.Read(); err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to load state for [%s]", name))
	}

	return s, nil
}

// Name returns the name the document is stored under
func (s *State) Name() string {
	return s.name
}

// Read replaces the in-memory document with the stored one
func (s *State) Read() (err error) {
	doc, err := s.storer.Read(s.name)
	if err != nil {
		return err
	}

	if doc == nil {
		doc = store.Document{}
	}

	s.doc = doc
	s.log.Debugf("Read state [%s]", s.name)
	return nil
}

// Write replaces the stored document with the in-memory one
func (s *State) Write() (err error) {
	if err = s.storer.Write(s.name, s.doc); err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to write state [%s]", s.name))
	}

	s.revision++
	s.log.Debugf("Wrote state [%s] (revision %d)", s.name, s.revision)
	return nil
}

// Get returns the top-level value stored under key
func (s *State) Get(key string) (v interface{}, ok bool) {
	v, ok = s.doc[key]
	return v, ok
}

// Set sets the top-level value of key in memory. It isn't persisted until Write is called
func (s *State) Set(key string, v interface{}) {
	s.doc[key] = v
}

// Data returns the in-memory document
func (s *State) Data() store.Document {
	return s.doc
}

// Revision returns the number of successful writes since the state was loaded
func (s *State) Revision() uint64 {
	return s.revision
}

func (s *State) setLogger(l SLogger) {
	s.log = l
}
