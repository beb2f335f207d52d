package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/maskedit/internal/log"
)

// SaveFields replaces the fields list in the config file.
// This preserves comments and formatting in other sections by using yaml.Node.
func SaveFields(configPath string, fields []FieldConfig) error {
	return saveKey(configPath, "fields", buildFieldsNode(fields))
}

// SaveLocale sets the top-level locale key in the config file.
func SaveLocale(configPath, id string) error {
	return saveKey(configPath, "locale", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: id})
}

// AddField appends a field and saves the resulting list.
func AddField(configPath string, field FieldConfig, existing []FieldConfig) error {
	fields := make([]FieldConfig, 0, len(existing)+1)
	fields = append(fields, existing...)
	fields = append(fields, field)
	return SaveFields(configPath, fields)
}

// UpdateFieldValue stores value as the initial value of the named field.
func UpdateFieldValue(configPath, name, value string, fields []FieldConfig) error {
	updated := make([]FieldConfig, len(fields))
	copy(updated, fields)
	for i := range updated {
		if updated[i].Name == name {
			updated[i].Value = value
			return SaveFields(configPath, updated)
		}
	}
	return fmt.Errorf("field %q not found", name)
}

// DeleteField removes the named field and saves.
func DeleteField(configPath, name string, fields []FieldConfig) error {
	updated := make([]FieldConfig, 0, len(fields))
	for _, f := range fields {
		if f.Name != name {
			updated = append(updated, f)
		}
	}
	if len(updated) == len(fields) {
		return fmt.Errorf("field %q not found", name)
	}
	return SaveFields(configPath, updated)
}

// saveKey sets a top-level key of the YAML document at configPath, creating
// the file if needed, and writes it back atomically.
func saveKey(configPath, key string, value *yaml.Node) error {
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	// Parse into yaml.Node to preserve comments
	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{
				{
					Kind: yaml.MappingNode,
					Content: []*yaml.Node{
						{Kind: yaml.ScalarNode, Value: key},
						value,
					},
				},
			},
		}
	} else if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root := doc.Content[0]
		if root.Kind != yaml.MappingNode {
			return fmt.Errorf("parsing config: top level is not a mapping")
		}
		found := false
		for i := 0; i < len(root.Content)-1; i += 2 {
			if root.Content[i].Value == key {
				root.Content[i+1] = value
				found = true
				break
			}
		}
		if !found {
			root.Content = append(root.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: key},
				value,
			)
		}
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	if err := writeAtomic(configPath, buf.Bytes()); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to save config", err, "path", configPath, "key", key)
		return err
	}
	log.Debug(log.CatConfig, "Saved config", "path", configPath, "key", key)
	return nil
}

// writeAtomic writes to a temp file in the target directory, then renames.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".maskedit.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// buildFieldsNode creates a yaml.Node representing the fields array. Empty
// optional keys are omitted.
func buildFieldsNode(fields []FieldConfig) *yaml.Node {
	node := &yaml.Node{
		Kind:    yaml.SequenceNode,
		Content: make([]*yaml.Node, 0, len(fields)),
	}

	for _, f := range fields {
		fieldNode := &yaml.Node{Kind: yaml.MappingNode}
		add := func(key, value string) {
			fieldNode.Content = append(fieldNode.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: key},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
			)
		}

		add("name", f.Name)
		add("kind", f.EffectiveKind())
		add("pattern", f.Pattern)
		if f.Display != "" {
			add("display", f.Display)
		}
		if f.Value != "" {
			add("value", f.Value)
		}

		node.Content = append(node.Content, fieldNode)
	}

	return node
}
