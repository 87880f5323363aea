package report

import (
	"encoding/json"
	"io"
	"os"
)

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// DumpToTmpFile writes v as JSON to a new temporary file and returns its name.
func DumpToTmpFile(v any) (string, error) {
	file, err := os.CreateTemp("", "skill-sync_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := WriteJSON(file, v); err != nil {
		return "", err
	}
	return file.Name(), nil
}
