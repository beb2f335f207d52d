package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFields(t *testing.T, configPath string) []FieldConfig {
	t.Helper()
	v := viper.New()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())

	var fields []FieldConfig
	require.NoError(t, v.UnmarshalKey("fields", &fields))
	return fields
}

func TestSaveFields_CreatesNewFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	fields := []FieldConfig{{Name: "Phone", Kind: KindMask, Pattern: `(999) 999\-9999`}}
	require.NoError(t, SaveFields(configPath, fields))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Phone")
	assert.Contains(t, string(data), "kind: mask")
}

func TestSaveFields_PreservesOtherConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	initial := `# my settings
locale: fr-FR
editor:
  placeholder: "."
  overwrite: true
fields:
  - name: Old
    pattern: "999"
`
	require.NoError(t, os.WriteFile(configPath, []byte(initial), 0o644))

	require.NoError(t, SaveFields(configPath, []FieldConfig{{Name: "New", Pattern: "0000"}}))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# my settings")
	assert.Contains(t, content, "locale: fr-FR")
	assert.Contains(t, content, "overwrite: true")
	assert.Contains(t, content, "name: New")
	assert.NotContains(t, content, "name: Old")
}

func TestSaveFields_Roundtrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	original := []FieldConfig{
		{Name: "Phone", Kind: KindMask, Pattern: `(999) 999\-9999`, Value: "5551234567"},
		{Name: "Amount", Kind: KindNumber, Pattern: "¤-#,##0.00", Value: "-12.50"},
		{Name: "Birthday", Kind: KindMask, Pattern: "99/99/9999", Display: "mm/dd/yyyy"},
		{Name: "Color", Kind: KindMask, Pattern: `\#HHHHHH`},
		{Name: "Date", Kind: KindDate, Pattern: "Mon, 02 Jan 2006 15:04 -0700"},
	}
	require.NoError(t, SaveFields(configPath, original))
	require.Equal(t, original, loadFields(t, configPath))
}

func TestSaveFields_DefaultsKind(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveFields(configPath, []FieldConfig{{Name: "Zip", Pattern: "00000"}}))

	fields := loadFields(t, configPath)
	require.Len(t, fields, 1)
	require.Equal(t, KindMask, fields[0].Kind)
}

func TestSaveFields_OmitsEmptyFields(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveFields(configPath, []FieldConfig{{Name: "Minimal", Pattern: "9"}}))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "display:")
	assert.NotContains(t, string(data), "value:")
}

func TestSaveFields_AtomicWrite(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	require.NoError(t, SaveFields(configPath, []FieldConfig{{Name: "Initial", Pattern: "9"}}))
	require.NoError(t, SaveFields(configPath, []FieldConfig{{Name: "Updated", Pattern: "9"}}))

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.Contains(entry.Name(), ".tmp."), "temp file left behind: %s", entry.Name())
	}

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Updated")
}

func TestSaveFields_CreatesDirectory(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "subdir", "nested", "config.yaml")

	require.NoError(t, SaveFields(configPath, []FieldConfig{{Name: "Test", Pattern: "9"}}))

	_, err := os.Stat(configPath)
	require.NoError(t, err)
}

func TestSaveFields_RejectsNonMapping(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("- just\n- a list\n"), 0o644))

	err := SaveFields(configPath, nil)
	require.ErrorContains(t, err, "not a mapping")
}

func TestSaveLocale(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(configPath))

	require.NoError(t, SaveLocale(configPath, "ja-JP"))

	cfg := loadConfigFromYAML(t, mustRead(t, configPath))
	require.Equal(t, "ja-JP", cfg.Locale)
	require.Equal(t, DefaultFields(), cfg.Fields)
}

func TestAddField(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	existing := []FieldConfig{{Name: "A", Kind: KindMask, Pattern: "9"}}

	require.NoError(t, AddField(configPath, FieldConfig{Name: "B", Kind: KindMask, Pattern: "99"}, existing))

	fields := loadFields(t, configPath)
	require.Len(t, fields, 2)
	require.Equal(t, "A", fields[0].Name)
	require.Equal(t, "B", fields[1].Name)
	require.Len(t, existing, 1)
}

func TestUpdateFieldValue(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	fields := []FieldConfig{
		{Name: "A", Kind: KindMask, Pattern: "9999"},
		{Name: "B", Kind: KindMask, Pattern: "9999"},
	}

	require.NoError(t, UpdateFieldValue(configPath, "B", "0042", fields))

	loaded := loadFields(t, configPath)
	require.Equal(t, "", loaded[0].Value)
	require.Equal(t, "0042", loaded[1].Value)
	require.Equal(t, "", fields[1].Value, "input slice must not be modified")

	require.ErrorContains(t, UpdateFieldValue(configPath, "C", "1", fields), `field "C" not found`)
}

func TestDeleteField(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	fields := []FieldConfig{
		{Name: "A", Kind: KindMask, Pattern: "9"},
		{Name: "B", Kind: KindMask, Pattern: "9"},
	}

	require.NoError(t, DeleteField(configPath, "A", fields))
	loaded := loadFields(t, configPath)
	require.Len(t, loaded, 1)
	require.Equal(t, "B", loaded[0].Name)

	require.ErrorContains(t, DeleteField(configPath, "Z", fields), "not found")
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
