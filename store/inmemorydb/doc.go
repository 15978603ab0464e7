/*
Package inmemorydb provides an implementation of github.com/orangeandblueleague/filefairy/store's DocumentStorer interface
as an in-memory cache that writes through to a persistent DocumentStorer. Without a persistent storer, it is a
purely in-memory store which is mostly useful for tests and dry runs.

Example code:

	import (
		"github.com/orangeandblueleague/filefairy/store/filedb"
		"github.com/orangeandblueleague/filefairy/store/inmemorydb"
	)

	func main() {
		fdb, err := filedb.New("~/.filefairy/data")
		if err != nil {
			log.Fatalf("Opening file db failed: %s", err.Error())
		}

		storer := inmemorydb.New(fdb)
		defer storer.Close()
		...
	}
*/
package inmemorydb
