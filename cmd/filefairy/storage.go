package main

import (
	"fmt"
	"github.com/orangeandblueleague/filefairy/config"
	"github.com/orangeandblueleague/filefairy/store"
	"github.com/orangeandblueleague/filefairy/store/datastoredb"
	"github.com/orangeandblueleague/filefairy/store/filedb"
	"github.com/orangeandblueleague/filefairy/store/inmemorydb"
	"github.com/spf13/viper"
	"google.golang.org/api/option"
)

const datastoreKind = "filefairyState"

// newStorer creates the storage selected by storage.type. Persistent storages are fronted by an
// in-memory copy
func newStorer(v *viper.Viper) (storer store.DocumentStorer, err error) {
	var persistent store.DocumentStorer

	switch t := v.GetString(config.StorageTypeKey); t {
	case config.FileStorage:
		persistent, err = filedb.New(v.GetString(config.StoragePathKey))
	case config.LevelDBStorage:
		persistent, err = store.NewLevelDB(name, v.GetString(config.StoragePathKey))
	case config.DatastoreStorage:
		opts := make([]option.ClientOption, 0)
		if credentialsFile := v.GetString(config.StorageCredentialsKey); credentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(credentialsFile))
		}
		persistent, err = datastoredb.New(datastoreKind, v.GetString(config.StorageProjectIDKey), opts...)
	case config.MemoryStorage:
		return inmemorydb.New(nil), nil
	default:
		return nil, fmt.Errorf("Unknown storage type [%s], should be one of [%s, %s, %s, %s]", t, config.FileStorage, config.LevelDBStorage, config.DatastoreStorage, config.MemoryStorage)
	}

	if err != nil {
		return nil, err
	}

	return inmemorydb.New(persistent), nil
}
