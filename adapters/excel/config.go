package excel

import (
	"hypotest/internal"
)

// ReaderConfig holds settings for a tabular sample source
type ReaderConfig struct {
	FilePath string `json:"file_path"` // "-" reads stdin
	Format   Format `json:"format"`    // inferred from FilePath when empty
	Sheet    string `json:"sheet"`     // xlsx only; first sheet when empty
	Name     string `json:"name"`      // pair name; FilePath when empty

	Logger *internal.Logger `json:"-"`
}

// DefaultReaderConfig returns a config for path with the format inferred
func DefaultReaderConfig(path string) ReaderConfig {
	return ReaderConfig{
		FilePath: path,
		Format:   FormatFromPath(path),
	}
}
