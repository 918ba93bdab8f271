package jsondoc

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"hypotest/domain/core"
	"hypotest/domain/stats"

	"github.com/tidwall/gjson"
)

const (
	DefaultBaselinePath = "baseline"
	DefaultEnhancedPath = "enhanced"
)

// Reader extracts two numeric arrays from a JSON document. The arrays are
// located with gjson paths, so nested documents such as
// {"run":{"before":[...],"after":[...]}} work with "run.before" and "run.after".
type Reader struct {
	filePath     string
	baselinePath string
	enhancedPath string
	name         string
	stdin        io.Reader
}

// NewReader creates a JSON reader. Empty paths select the defaults.
func NewReader(filePath, baselinePath, enhancedPath string) *Reader {
	if baselinePath == "" {
		baselinePath = DefaultBaselinePath
	}
	if enhancedPath == "" {
		enhancedPath = DefaultEnhancedPath
	}
	return &Reader{
		filePath:     filePath,
		baselinePath: baselinePath,
		enhancedPath: enhancedPath,
		name:         filePath,
		stdin:        os.Stdin,
	}
}

// WithName overrides the pair name, which defaults to the file path
func (r *Reader) WithName(name string) *Reader {
	r.name = name
	return r
}

// ReadSamples implements ports.SampleReader
func (r *Reader) ReadSamples(ctx context.Context) (stats.SamplePair, error) {
	if err := ctx.Err(); err != nil {
		return stats.SamplePair{}, err
	}

	body, err := r.readAll()
	if err != nil {
		return stats.SamplePair{}, err
	}
	return r.Parse(body)
}

// Parse extracts the pair from an in-memory document
func (r *Reader) Parse(body []byte) (stats.SamplePair, error) {
	if !gjson.ValidBytes(body) {
		return stats.SamplePair{}, fmt.Errorf("%w: %s is not valid JSON", core.ErrInvalidInput, r.name)
	}

	baseline, err := extractNumbers(body, r.baselinePath)
	if err != nil {
		return stats.SamplePair{}, err
	}
	enhanced, err := extractNumbers(body, r.enhancedPath)
	if err != nil {
		return stats.SamplePair{}, err
	}
	return stats.SamplePair{Name: r.name, Baseline: baseline, Enhanced: enhanced}, nil
}

func (r *Reader) readAll() ([]byte, error) {
	if r.filePath == "-" {
		body, err := io.ReadAll(r.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return body, nil
	}
	body, err := os.ReadFile(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("JSON file not found: %s", r.filePath)
		}
		return nil, fmt.Errorf("failed to read %s: %w", r.filePath, err)
	}
	return body, nil
}

func extractNumbers(body []byte, path string) ([]float64, error) {
	result := gjson.GetBytes(body, path)
	if !result.Exists() {
		return nil, core.NewInvalidInputError(path, "path not found in document")
	}
	if !result.IsArray() {
		return nil, core.NewInvalidInputError(path, fmt.Sprintf("expected an array, got %s", result.Type))
	}

	items := result.Array()
	values := make([]float64, 0, len(items))
	for i, item := range items {
		if item.Type != gjson.Number {
			return nil, core.NewInvalidInputError(fmt.Sprintf("%s[%d]", path, i),
				fmt.Sprintf("non-numeric value %s", item.Raw))
		}
		v := item.Float()
		if math.IsInf(v, 0) {
			return nil, core.NewInvalidInputError(fmt.Sprintf("%s[%d]", path, i),
				fmt.Sprintf("value %s overflows float64", item.Raw))
		}
		values = append(values, v)
	}
	return values, nil
}
