package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/roach88/gensweep/internal/ir"
)

// LoadFixture reads a JSON array of configurations.
// Numbers must be whole; they decode to ir.Int.
func LoadFixture(path string) ([]ir.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes fixture bytes. See LoadFixture.
func ParseFixture(data []byte) ([]ir.Config, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("parse fixture: must be a JSON array of objects")
	}

	var configs []ir.Config
	if err := json.Unmarshal(trimmed, &configs); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if configs == nil {
		configs = []ir.Config{}
	}
	return configs, nil
}
