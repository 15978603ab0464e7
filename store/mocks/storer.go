// Package mocks contains a mock of the store package interfaces
package mocks

import (
	"github.com/orangeandblueleague/filefairy/store"
	"github.com/stretchr/testify/mock"
)

// Storer holds a mock implementation of store.DocumentStorer
type Storer struct {
	mock.Mock
}

// Read mocks an implementation of Read
func (ms *Storer) Read(name string) (doc store.Document, err error) {
	args := ms.Called(name)

	if d, ok := args.Get(0).(store.Document); ok {
		doc = d
	}

	return doc, args.Error(1)
}

// Write mocks an implementation of Write
func (ms *Storer) Write(name string, doc store.Document) (err error) {
	args := ms.Called(name, doc)

	return args.Error(0)
}

// Close mocks an implementation of Close
func (ms *Storer) Close() (err error) {
	args := ms.Called()

	return args.Error(0)
}
