package harvest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/benjamin-asch/quantum-rankings/internal/dataset"
)

// WriteJSON writes the dataset as the data.json the frontend fetches.
func WriteJSON(path string, ds *dataset.Dataset) error {
	raw, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteJS wraps the dataset in a window.dataset assignment so a static
// page can load it with a plain script tag, no server required.
func WriteJS(path string, ds *dataset.Dataset) error {
	raw, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	out := append([]byte("window.dataset = "), raw...)
	out = append(out, []byte(";\n")...)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
