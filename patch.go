package filefairy

import (
	"dario.cat/mergo"
	"encoding/json"
	"fmt"
	"github.com/orangeandblueleague/filefairy/store"
	"github.com/pkg/errors"
	"strings"
)

// mergePatch deep merges data into doc under the dot separated key path. Values already present
// under the same path are overwritten and nested objects are merged key by key
func mergePatch(doc store.Document, key string, data interface{}) (err error) {
	normalized, err := normalize(data)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("patch data for key [%s] isn't representable as JSON", key))
	}

	parts := strings.Split(key, ".")
	for _, part := range parts {
		if part == "" {
			return errors.Wrapf(ErrInvalidPatch, "key [%s] has an empty path element", key)
		}
	}

	wrapped := normalized
	for i := len(parts) - 1; i >= 0; i-- {
		wrapped = map[string]interface{}{parts[i]: wrapped}
	}

	return mergo.Merge(&doc, wrapped.(map[string]interface{}), mergo.WithOverride)
}

// normalize converts data to the generic types a decoded JSON document holds so that it merges
// cleanly with what was read from storage
func normalize(data interface{}) (normalized interface{}, err error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(b, &normalized)
	return normalized, err
}
