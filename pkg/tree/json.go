package tree

import (
	"encoding/json"
	"os"

	"github.com/treescope/treescope/pkg/errors"
)

// Unmarshal decodes a tree from JSON bytes and validates the root.
func Unmarshal(data []byte) (*Node, error) {
	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode tree JSON")
	}
	return &root, nil
}

// Marshal encodes a tree as indented JSON.
func Marshal(root *Node) ([]byte, error) {
	if err := Validate(root); err != nil {
		return nil, err
	}
	return json.MarshalIndent(root, "", "  ")
}

// ReadFile loads a tree from a JSON file.
func ReadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read tree file %s", path)
	}
	return Unmarshal(data)
}
