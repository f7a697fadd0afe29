package storyboard

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Write serializes sb to path, picking the format from the file
// extension. Used by the scaffolding flow; rendering never writes the
// document back.
func Write(sb *Storyboard, path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(sb)
	default:
		data, err = json.MarshalIndent(sb, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	}
	if err != nil {
		return fmt.Errorf("storyboard: marshal: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
