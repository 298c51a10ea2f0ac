package conditions

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/MrSnakeDoc/rlfeatures/internal/logger"
	"github.com/MrSnakeDoc/rlfeatures/internal/utils"
	"gopkg.in/yaml.v3"
)

// Loader reads conditions.yaml from disk
type Loader struct {
	filePath string
	log      logger.Logger
}

// NewLoader creates a new conditions loader
func NewLoader(filePath string, log logger.Logger) *Loader {
	return &Loader{
		filePath: filePath,
		log:      log,
	}
}

// Path returns the file the loader reads
func (l *Loader) Path() string {
	return l.filePath
}

// Load reads and parses the conditions file.
// ${VAR} references are expanded from the environment before parsing.
func (l *Loader) Load() (*File, error) {
	f, err := os.Open(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open conditions file: %w", err)
	}
	defer utils.MustClose(f, l.log)

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read conditions file: %w", err)
	}

	return Parse(data)
}

// Parse decodes conditions yaml. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	data = []byte(os.ExpandEnv(string(data)))

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return &file, nil
		}
		return nil, fmt.Errorf("failed to parse conditions yaml: %w", err)
	}
	return &file, nil
}
