/*
Package datastoredb provides an implementation of the store.DocumentStorer interface
backed by the Google Cloud Datastore. Every plugin document is one entity of the
configured kind, keyed by the plugin name.

Requirements for the Google Cloud Datastore integration:
  - A valid project id with datastore mode enabled
  - Google Cloud Credentials (typically in the form of a json file with credentials from https://console.cloud.google.com/apis/credentials/serviceaccountkey)

Example code:

	import (
		"github.com/orangeandblueleague/filefairy/store/datastoredb"
		"google.golang.org/api/option"
	)

	func main() {
		storer, err := datastoredb.New("filefairy", "orangeandblue", option.WithCredentialsFile(*gcloudCredentialsFile))
		if err != nil {
			log.Fatalf("Opening datastore failed: %s", err.Error())
		}
		defer storer.Close()
		...
	}
*/
package datastoredb
