package datastoredb

import (
	"cloud.google.com/go/datastore"
	"context"
	"github.com/orangeandblueleague/filefairy/store"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

const testConnectivityKey = "testConnectivity"

// DatastoreDB implements store.DocumentStorer. The given kind isolates filefairy
// documents from other entities in the same project
type DatastoreDB struct {
	datastorer
	kind string
}

// EntryValue is the entity holding a whole encoded document
type EntryValue struct {
	Value string `datastore:",noindex"`
}

// datastorer is the subset of the datastore client used by DatastoreDB along with
// a connect function to (re)create the client
type datastorer interface {
	connect() (err error)
	Get(ctx context.Context, key *datastore.Key, dst interface{}) (err error)
	Put(ctx context.Context, key *datastore.Key, src interface{}) (k *datastore.Key, err error)
	Close() (err error)
}

// client wraps a datastore.Client with its connection parameters
type client struct {
	*datastore.Client
	projectID string
	opts      []option.ClientOption
}

func (c *client) connect() (err error) {
	if c.Client != nil {
		c.Client.Close()
	}

	c.Client, err = datastore.NewClient(context.Background(), c.projectID, c.opts...)
	return err
}

// New returns a new instance of DatastoreDB for the given kind. This function also requires a
// gcloudProjectID as well as at least one option to provide gcloud client credentials
func New(kind string, gcloudProjectID string, gcloudClientOpts ...option.ClientOption) (dsdb *DatastoreDB, err error) {
	return newWithDatastorer(kind, &client{projectID: gcloudProjectID, opts: gcloudClientOpts})
}

func newWithDatastorer(kind string, ds datastorer) (dsdb *DatastoreDB, err error) {
	if err = ds.connect(); err != nil {
		return nil, err
	}

	dsdb = new(DatastoreDB)
	dsdb.datastorer = ds
	dsdb.kind = kind

	if err = dsdb.testDB(); err != nil {
		dsdb.Close()
		return nil, err
	}

	return dsdb, nil
}

// testDB makes a lightweight call to the datastore to validate connectivity and credentials
func (dsdb *DatastoreDB) testDB() (err error) {
	var e EntryValue
	err = dsdb.Get(context.Background(), datastore.NameKey(dsdb.kind, testConnectivityKey, nil), &e)

	if err != nil && err != datastore.ErrNoSuchEntity {
		return err
	}

	return nil
}

// Read returns the document stored under name. A failed call is retried once on a fresh
// connection since credentials on long-lived clients can expire
func (dsdb *DatastoreDB) Read(name string) (doc store.Document, err error) {
	var e EntryValue
	k := datastore.NameKey(dsdb.kind, name, nil)

	err = dsdb.withReconnect(func() error {
		return dsdb.Get(context.Background(), k, &e)
	})

	if err == datastore.ErrNoSuchEntity {
		return nil, errors.Wrapf(store.ErrNotFound, "[%s] of kind [%s]", name, dsdb.kind)
	} else if err != nil {
		return nil, err
	}

	return store.Unmarshal([]byte(e.Value))
}

// Write replaces the document stored under name
func (dsdb *DatastoreDB) Write(name string, doc store.Document) (err error) {
	data, err := store.Marshal(doc)
	if err != nil {
		return err
	}

	k := datastore.NameKey(dsdb.kind, name, nil)

	return dsdb.withReconnect(func() error {
		_, err := dsdb.Put(context.Background(), k, &EntryValue{Value: string(data)})
		return err
	})
}

// withReconnect runs op and, on a failure other than a missing entity, reconnects and
// runs it one more time
func (dsdb *DatastoreDB) withReconnect(op func() error) (err error) {
	err = op()
	if err == nil || err == datastore.ErrNoSuchEntity {
		return err
	}

	if cerr := dsdb.connect(); cerr != nil {
		return errors.Wrapf(err, "reconnect failed: %v", cerr)
	}

	return op()
}
