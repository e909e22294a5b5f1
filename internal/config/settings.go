package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// EnvironmentSettings is the typed view of an environment's flat tfvars file.
// Used for pre-flight validation and to enrich the deployment summary; the
// authoritative copy is still consumed by Terraform directly.
type EnvironmentSettings struct {
	Environment   string  `mapstructure:"environment"`
	Location      string  `mapstructure:"location"`
	VMSize        string  `mapstructure:"vm_size"`
	AdminUsername string  `mapstructure:"admin_username"`
	AddressSpace  string  `mapstructure:"address_space"`
	MonthlyBudget float64 `mapstructure:"monthly_budget"`
	AlertEmail    string  `mapstructure:"alert_email"`
}

// LoadSettings parses a flat key = value tfvars file into typed settings.
// Unknown keys are ignored; Terraform remains the authority on the full set.
func LoadSettings(path string) (*EnvironmentSettings, error) {
	raw, err := parseVarsFile(path)
	if err != nil {
		return nil, err
	}

	var settings EnvironmentSettings
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &settings,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build settings decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode settings from %s: %w", path, err)
	}

	return &settings, nil
}

// parseVarsFile reads a flat HCL-style variables file. Only scalar
// assignments are understood; lists and blocks are skipped.
func parseVarsFile(path string) (map[string]interface{}, error) {
	f, err := os.Open(path) // #nosec G304 - path comes from the project layout
	if err != nil {
		return nil, fmt.Errorf("failed to read variables file: %w", err)
	}
	defer f.Close()

	vars := make(map[string]interface{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}

		vars[key] = parseScalar(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan variables file: %w", err)
	}

	return vars, nil
}

func parseScalar(value string) interface{} {
	if strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) && len(value) >= 2 {
		return strings.Trim(value, `"`)
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return n
	}
	return value
}
