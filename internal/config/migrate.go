package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// MigrationResult describes the outcome of a migration operation
type MigrationResult struct {
	SourcePath string
	TargetPath string
	Success    bool
	DryRun     bool
	Message    string
	// UnknownKeys lists top-level JSON keys that no config field reads.
	// They are still copied to the YAML file.
	UnknownKeys []string
}

// MigrateJSONToYAML converts a config.json in the changelog directory to
// config.yml. It never overwrites an existing YAML file.
func MigrateJSONToYAML(jsonPath, yamlPath string, dryRun bool) (*MigrationResult, error) {
	result := &MigrationResult{
		SourcePath: jsonPath,
		TargetPath: yamlPath,
		DryRun:     dryRun,
	}

	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			result.Message = fmt.Sprintf("No JSON config found at %s", jsonPath)
			return result, nil
		}
		return nil, fmt.Errorf("failed to read JSON config: %w", err)
	}

	var configData map[string]interface{}
	if err := json.Unmarshal(jsonData, &configData); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}

	result.UnknownKeys = unknownKeys(configData)

	if _, err := os.Stat(yamlPath); err == nil {
		result.Message = fmt.Sprintf("YAML config already exists at %s (skipped)", yamlPath)
		return result, nil
	}

	if dryRun {
		result.Success = true
		result.Message = fmt.Sprintf("Would migrate %s → %s", jsonPath, yamlPath)
		return result, nil
	}

	yamlData, err := yaml.Marshal(configData)
	if err != nil {
		return nil, fmt.Errorf("failed to convert to YAML: %w", err)
	}

	if err := writeWithHeader(yamlPath, "# fraglog configuration\n# Migrated from JSON format\n\n", yamlData); err != nil {
		return nil, err
	}

	result.Success = true
	result.Message = fmt.Sprintf("Migrated %s → %s", jsonPath, yamlPath)
	return result, nil
}

// WriteTemplate writes the commented default config to path, creating
// parent directories. A non-empty projectURL is set in place of the
// commented project_url example.
func WriteTemplate(path, projectURL string) error {
	template := GetDefaultConfigTemplate()
	if projectURL != "" {
		template = strings.Replace(template, projectURLExample, "project_url: "+projectURL, 1)
	}
	return writeWithHeader(path, "", []byte(template))
}

// unknownKeys returns the sorted top-level keys of data that are not
// config keys.
func unknownKeys(data map[string]interface{}) []string {
	known := make(map[string]bool)
	for key := range GetDefaults() {
		top, _, _ := strings.Cut(key, ".")
		known[top] = true
	}

	var unknown []string
	for key := range data {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown
}

func writeWithHeader(path, header string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
