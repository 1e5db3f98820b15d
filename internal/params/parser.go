package params

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/joho/godotenv"

	"github.com/vvka-141/definegen/internal/model"
	"github.com/vvka-141/definegen/pkg/define"
)

// ParseKeyValuePairs converts a slice of "key=value" strings into a map
// of STUDY property overrides.
//
// Example:
//
//	params, err := ParseKeyValuePairs([]string{"StudyName=CDISC01", "protocolname=P-01"})
//	// Returns: map[string]string{"StudyName": "CDISC01", "ProtocolName": "P-01"}
func ParseKeyValuePairs(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("override %q is not in key=value format (example: --set StudyName=CDISC01): %w", pair, define.ErrInvalidConfig)
		}
		name, err := canonical(strings.TrimSpace(key))
		if err != nil {
			return nil, err
		}
		result[name] = value
	}

	return result, nil
}

// ReadFile loads overrides from a dotenv file.
func ReadFile(path string) (map[string]string, error) {
	raw, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides from %s: %v: %w", path, err, define.ErrInvalidConfig)
	}
	return Normalize(raw)
}

// Normalize canonicalizes the property names of a map, as read from
// definegen.yaml or a file. Two keys naming the same property are an
// error since the map has no order to pick a winner by.
func Normalize(raw map[string]string) (map[string]string, error) {
	result := make(map[string]string, len(raw))
	given := make(map[string]string, len(raw))
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		name, err := canonical(key)
		if err != nil {
			return nil, err
		}
		if prev, dup := given[name]; dup {
			return nil, fmt.Errorf("study property %s is set as both %q and %q: %w", name, prev, key, define.ErrInvalidConfig)
		}
		given[name] = key
		result[name] = raw[key]
	}
	return result, nil
}

// Merge combines override layers; later layers win.
func Merge(layers ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, layer := range layers {
		for k, v := range layer {
			result[k] = v
		}
	}
	return result
}

func canonical(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("override has empty property name: %w", define.ErrInvalidConfig)
	}
	p, ok := model.LookupStudyProperty(key)
	if !ok {
		return "", fmt.Errorf("unknown study property %q: %w", key, define.ErrInvalidConfig)
	}
	return p.Name, nil
}
