package content

import (
	"encoding/json"
	"fmt"
)

// load reads and unmarshals a JSON file from the embedded filesystem.
func load[T any](filename string) (T, error) {
	var result T

	raw, err := dataFS.ReadFile(filename)
	if err != nil {
		return result, fmt.Errorf("read embedded file %s: %w", filename, err)
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return result, fmt.Errorf("parse %s: %w", filename, err)
	}

	return result, nil
}
