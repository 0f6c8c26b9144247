/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/dtref/fs"
	"bennypowers.dev/dtref/reference"
	"bennypowers.dev/dtref/token"
)

// ErrInvalidRoot indicates a token file whose root is neither an object nor an array.
var ErrInvalidRoot = errors.New("token file root must be an object or an array")

// JSONParser parses JSON (with comments) and YAML token files.
type JSONParser struct{}

// NewJSONParser creates a new token parser.
func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

// Parse parses JSON or YAML token data into a tree.
//
// An object root is a nested token tree. An array root is a flat list of
// token records, each with a "path" array (or a "name") and a value.
func (p *JSONParser) Parse(data []byte, opts Options) (*token.Tree, error) {
	var raw any
	var positionData []byte

	if isLikelyJSON(data) {
		cleanJSON := jsonc.ToJSON(data)
		if err := json.Unmarshal(cleanJSON, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		positionData = cleanJSON
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		raw = normalizeMap(raw)
		positionData = data
	}

	tree := token.NewTree()

	switch root := raw.(type) {
	case map[string]any:
		marker := opts.ValueMarker
		if marker == "" {
			marker = detectMarker(root)
		}
		if err := p.extractTokens(tree, root, nil, "", marker); err != nil {
			return nil, err
		}
		if !opts.SkipPositions {
			if err := addPositions(positionData, tree); err != nil {
				return nil, err
			}
		}
	case []any:
		if err := p.extractFlat(tree, root, opts); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidRoot
	}

	return tree, nil
}

// isLikelyJSON checks if data appears to be JSON rather than YAML.
func isLikelyJSON(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case 0xEF, 0xBB, 0xBF: // UTF-8 BOM
			continue
		case '{', '[':
			return true
		case '/': // leading comment
			return true
		default:
			return false
		}
	}
	return false
}

// normalizeMap recursively converts map[any]any to map[string]any.
// YAML with numeric keys (like "100:") decodes to map[any]any.
func normalizeMap(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			x[k] = normalizeMap(val)
		}
		return x
	case map[any]any:
		result := make(map[string]any, len(x))
		for k, val := range x {
			result[fmt.Sprintf("%v", k)] = normalizeMap(val)
		}
		return result
	case []any:
		for i, val := range x {
			x[i] = normalizeMap(val)
		}
		return x
	default:
		return v
	}
}

// detectMarker picks "$value" unless the data only uses the legacy "value" key.
func detectMarker(data map[string]any) string {
	if hasKey(data, DTCGValueMarker) {
		return DTCGValueMarker
	}
	if hasKey(data, LegacyValueMarker) {
		return LegacyValueMarker
	}
	return DTCGValueMarker
}

func hasKey(data map[string]any, key string) bool {
	for k, v := range data {
		if k == key {
			return true
		}
		if m, ok := v.(map[string]any); ok && hasKey(m, key) {
			return true
		}
	}
	return false
}

// metaPrefix is "$" for DTCG files, where metadata keys are $-prefixed.
func metaPrefix(marker string) string {
	if strings.HasPrefix(marker, "$") {
		return "$"
	}
	return ""
}

// extractTokens recursively inserts the tokens of a parsed mapping.
// inheritedType is passed down from parent groups for $type inheritance.
func (p *JSONParser) extractTokens(tree *token.Tree, data map[string]any, path []string, inheritedType, marker string) error {
	prefix := metaPrefix(marker)

	currentType := inheritedType
	if groupType, ok := data[prefix+"type"].(string); ok && prefix != "" {
		currentType = groupType
	}

	for _, key := range sortedKeys(data) {
		if prefix != "" && strings.HasPrefix(key, prefix) {
			continue
		}

		valueMap, ok := data[key].(map[string]any)
		if !ok {
			continue
		}

		currentPath := append(slices.Clip(path), key)

		if rawValue, isToken := valueMap[marker]; isToken {
			if err := tree.Insert(createToken(currentPath, rawValue, valueMap, currentType, prefix)); err != nil {
				return err
			}
			continue
		}

		if err := p.extractTokens(tree, valueMap, currentPath, currentType, marker); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(data map[string]any) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// createToken creates a Token from map data.
// The token's own type takes precedence over the inherited one.
func createToken(path []string, rawValue any, valueMap map[string]any, inheritedType, prefix string) *token.Token {
	t := token.New(path, rawValue)

	if typeStr, ok := valueMap[prefix+"type"].(string); ok {
		t.Type = typeStr
	} else if inheritedType != "" {
		t.Type = inheritedType
	}
	if descStr, ok := valueMap[prefix+"description"].(string); ok {
		t.Description = descStr
	} else if comment, ok := valueMap["comment"].(string); ok && prefix == "" {
		t.Description = comment
	}
	if extensions, ok := valueMap[prefix+"extensions"].(map[string]any); ok {
		t.Extensions = extensions
	} else if attributes, ok := valueMap["attributes"].(map[string]any); ok && prefix == "" {
		t.Extensions = attributes
	}

	return t
}

// extractFlat inserts tokens from a flat list of records.
func (p *JSONParser) extractFlat(tree *token.Tree, records []any, opts Options) error {
	for i, item := range records {
		record, ok := item.(map[string]any)
		if !ok {
			return fmt.Errorf("token record %d: expected an object, got %T", i, item)
		}

		path, err := recordPath(record, opts.Reference)
		if err != nil {
			return fmt.Errorf("token record %d: %w", i, err)
		}

		marker := opts.ValueMarker
		if marker == "" {
			marker = DTCGValueMarker
			if _, ok := record[marker]; !ok {
				marker = LegacyValueMarker
			}
		}
		rawValue, ok := record[marker]
		if !ok {
			return fmt.Errorf("token record %d (%s): missing %q", i, strings.Join(path, "."), marker)
		}

		if err := tree.Insert(createToken(path, rawValue, record, "", metaPrefix(marker))); err != nil {
			return fmt.Errorf("token record %d: %w", i, err)
		}
	}
	return nil
}

// recordPath returns the path of a flat token record. A record without a
// path may carry a name, split with the reference separator.
func recordPath(record map[string]any, opts reference.Options) ([]string, error) {
	if rawPath, ok := record["path"]; ok {
		return reference.ToPath(rawPath)
	}
	if name, ok := record["name"].(string); ok && name != "" {
		return reference.SplitName(name, opts), nil
	}
	return nil, &reference.InvalidPathError{Path: nil}
}

// addPositions adds line/character positions to tokens by parsing with yaml.v3.
func addPositions(data []byte, tree *token.Tree) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("failed to parse data for positions: %w", err)
	}
	if len(root.Content) > 0 {
		walkForPositions(root.Content[0], nil, tree)
	}
	return nil
}

// walkForPositions walks the yaml AST to find token positions.
func walkForPositions(node *yaml.Node, path []string, tree *token.Tree) {
	if node.Kind != yaml.MappingNode {
		return
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]
		if valueNode.Kind != yaml.MappingNode {
			continue
		}

		currentPath := append(slices.Clip(path), keyNode.Value)
		n, ok := tree.NodeAt(currentPath)
		if !ok {
			continue
		}

		line, char := position(keyNode)
		switch target := n.(type) {
		case *token.Token:
			target.Line, target.Character = line, char
		case *token.Group:
			target.Line, target.Character = line, char
			walkForPositions(valueNode, currentPath, tree)
		}
	}
}

// position converts yaml.v3's 1-based position to 0-based.
func position(n *yaml.Node) (uint32, uint32) {
	var line, char uint32
	if lineVal := int64(n.Line) - 1; lineVal >= 0 && lineVal <= math.MaxUint32 {
		line = uint32(lineVal)
	}
	if colVal := int64(n.Column) - 1; colVal >= 0 && colVal <= math.MaxUint32 {
		char = uint32(colVal)
	}
	return line, char
}

// ParseFile parses a token file and returns its tree.
func (p *JSONParser) ParseFile(filesystem fs.FileSystem, path string, opts Options) (*token.Tree, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	tree, err := p.Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}

	for _, t := range tree.Tokens() {
		t.FilePath = path
	}

	return tree, nil
}
