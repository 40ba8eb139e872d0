package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/relviz/internal/queryir"
)

// LoadError represents an error that occurred while loading a query document.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadQueries reads a query document file and converts it to queries.
//
// The format follows the extension: .json, .yaml/.yml or .cue. The path
// "-" reads YAML (or JSON) from stdin.
func LoadQueries(path string, stdin io.Reader) ([]queryir.Query, error) {
	file, err := LoadFile(path, stdin)
	if err != nil {
		return nil, err
	}
	return file.ToQueries()
}

// LoadFile reads and decodes a query document file without converting it.
func LoadFile(path string, stdin io.Reader) (*queryir.File, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("query file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return decodeJSON(data)
	case ".yaml", ".yml", "":
		return decodeYAML(data)
	case ".cue":
		return decodeCUE(path, data)
	default:
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("unsupported file type %q: use .json, .yaml, .yml or .cue", ext)}
	}
}

func decodeJSON(data []byte) (*queryir.File, error) {
	var f queryir.File
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("parsing JSON: %v", err)}
	}
	return &f, nil
}

func decodeYAML(data []byte) (*queryir.File, error) {
	var f queryir.File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // Reject unknown fields
	if err := dec.Decode(&f); err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("parsing YAML: %v", err)}
	}
	return &f, nil
}

// decodeCUE evaluates a CUE document and decodes its JSON export, which
// keeps field order for values and set mappings.
func decodeCUE(path string, data []byte) (*queryir.File, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, cueLoadError(ErrCodeBuildFailed, "building CUE value", err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(ErrCodeBuildFailed, "CUE value is not concrete", err)
	}

	exported, err := value.MarshalJSON()
	if err != nil {
		return nil, cueLoadError(ErrCodeBuildFailed, "exporting CUE value", err)
	}
	return decodeJSON(exported)
}

// cueLoadError converts a CUE error to a LoadError with position info.
func cueLoadError(code, context string, err error) *LoadError {
	loadErr := &LoadError{Code: code, Message: fmt.Sprintf("%s: %v", context, err)}
	if positions := cueerrors.Positions(err); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}
