package model

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrCorruptState is returned by LoadState when the file exists but is not
// a valid key/value mapping.
var ErrCorruptState = errors.New("failed to parse state file")

// LoadState loads the key/value state file from the given path.
// A missing or empty file yields an empty map.
func LoadState(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read state file %s: %w", path, err)
	}

	items := map[string]string{}
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrCorruptState, path, err)
	}
	if items == nil {
		items = map[string]string{}
	}

	return items, nil
}

// SaveState writes the key/value state file to the given path.
// Keys are sorted and every value is written as a quoted string, so
// "7" round-trips as the string "7" and never as an integer.
func SaveState(path string, items map[string]string) error {
	data, err := yaml.Marshal(buildStateNode(items))
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", path, err)
	}

	return nil
}

// buildStateNode creates a yaml.Node mapping with sorted keys.
func buildStateNode(items map[string]string) *yaml.Node {
	doc := &yaml.Node{Kind: yaml.MappingNode}

	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		addStringField(doc, k, items[k])
	}
	return doc
}

func addStringField(node *yaml.Node, key, value string) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value, Tag: "!!str", Style: yaml.DoubleQuotedStyle},
	)
}
