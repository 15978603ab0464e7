package datastoredb

import (
	"cloud.google.com/go/datastore"
	"context"
	"fmt"
	"github.com/orangeandblueleague/filefairy/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"testing"
)

// mock of the datastore
type mockDatastore struct {
	mock.Mock
	stored map[string]string
}

func newMockDatastore() (md *mockDatastore) {
	md = new(mockDatastore)
	md.stored = make(map[string]string)

	return md
}

// connect mocks a datastore connect call
func (md *mockDatastore) connect() (err error) {
	args := md.Called()

	return args.Error(0)
}

// Close mocks a datastore Close
func (md *mockDatastore) Close() (err error) {
	args := md.Called()
	return args.Error(0)
}

// Get mocks a Get datastore call and fills in the stored value when found
func (md *mockDatastore) Get(c context.Context, k *datastore.Key, dest interface{}) (err error) {
	args := md.Called(c, k, dest)

	if e, ok := dest.(*EntryValue); ok {
		if v, ok := md.stored[k.Name]; ok {
			e.Value = v
		}
	}

	return args.Error(0)
}

// Put mocks a Put datastore call and keeps the stored value
func (md *mockDatastore) Put(c context.Context, k *datastore.Key, v interface{}) (key *datastore.Key, err error) {
	args := md.Called(c, k, v)

	if e, ok := v.(*EntryValue); ok && args.Error(0) == nil {
		md.stored[k.Name] = e.Value
	}

	return k, args.Error(0)
}

const (
	testKind = "filefairy"
)

func TestErrorOnCreationConnect(t *testing.T) {
	mockDS := newMockDatastore()
	mockDS.On("connect").Return(fmt.Errorf("invalid credentials"))

	_, err := newWithDatastorer(testKind, mockDS)
	if assert.Error(t, err) {
		assert.Equal(t, "invalid credentials", err.Error())
	}
}

func TestErrorOnDBTestOnCreation(t *testing.T) {
	mockDS := newMockDatastore()
	defer mockDS.AssertExpectations(t)

	mockDS.On("connect").Return(nil)
	mockDS.On("Get", mock.Anything, datastore.NameKey(testKind, testConnectivityKey, nil), mock.Anything).Return(fmt.Errorf("invalid credentials"))
	mockDS.On("Close").Return(nil)

	_, err := newWithDatastorer(testKind, mockDS)
	if assert.Error(t, err) {
		assert.Equal(t, "invalid credentials", err.Error())
	}
}

func TestReadMissingDocument(t *testing.T) {
	mockDS := newMockDatastore()
	defer mockDS.AssertExpectations(t)

	mockDS.On("connect").Return(nil)
	mockDS.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(datastore.ErrNoSuchEntity)

	dsdb, err := newWithDatastorer(testKind, mockDS)
	if assert.NoError(t, err) {
		_, err = dsdb.Read("poller")
		assert.True(t, store.IsNotFound(err))
	}
}

func TestWriteThenRead(t *testing.T) {
	mockDS := newMockDatastore()
	defer mockDS.AssertExpectations(t)

	mockDS.On("connect").Return(nil)
	mockDS.On("Get", mock.Anything, datastore.NameKey(testKind, testConnectivityKey, nil), mock.Anything).Return(datastore.ErrNoSuchEntity)
	mockDS.On("Put", mock.Anything, datastore.NameKey(testKind, "poller", nil), mock.Anything).Return(nil).Once()
	mockDS.On("Get", mock.Anything, datastore.NameKey(testKind, "poller", nil), mock.Anything).Return(nil).Once()

	dsdb, err := newWithDatastorer(testKind, mockDS)
	if assert.NoError(t, err) {
		err = dsdb.Write("poller", store.Document{"count": 1})
		assert.NoError(t, err)

		doc, err := dsdb.Read("poller")
		assert.NoError(t, err)
		assert.Equal(t, store.Document{"count": float64(1)}, doc)
	}
}

func TestReconnectOnPutFailure(t *testing.T) {
	mockDS := newMockDatastore()
	defer mockDS.AssertExpectations(t)

	mockDS.On("connect").Return(nil).Twice()
	mockDS.On("Get", mock.Anything, datastore.NameKey(testKind, testConnectivityKey, nil), mock.Anything).Return(datastore.ErrNoSuchEntity)
	mockDS.On("Put", mock.Anything, datastore.NameKey(testKind, "poller", nil), mock.Anything).Return(fmt.Errorf("rpc error: code = Unauthenticated")).Once()
	mockDS.On("Put", mock.Anything, datastore.NameKey(testKind, "poller", nil), mock.Anything).Return(nil).Once()

	dsdb, err := newWithDatastorer(testKind, mockDS)
	if assert.NoError(t, err) {
		assert.NoError(t, dsdb.Write("poller", store.Document{"count": 2}))
		assert.Contains(t, mockDS.stored["poller"], "\"count\": 2")
	}
}

func TestFailureAfterReconnect(t *testing.T) {
	mockDS := newMockDatastore()
	defer mockDS.AssertExpectations(t)

	mockDS.On("connect").Return(nil).Twice()
	mockDS.On("Get", mock.Anything, datastore.NameKey(testKind, testConnectivityKey, nil), mock.Anything).Return(datastore.ErrNoSuchEntity)
	mockDS.On("Get", mock.Anything, datastore.NameKey(testKind, "poller", nil), mock.Anything).Return(fmt.Errorf("rpc error: code = Unauthenticated")).Twice()

	dsdb, err := newWithDatastorer(testKind, mockDS)
	if assert.NoError(t, err) {
		_, err := dsdb.Read("poller")
		if assert.Error(t, err) {
			assert.Equal(t, "rpc error: code = Unauthenticated", err.Error())
		}
	}
}
