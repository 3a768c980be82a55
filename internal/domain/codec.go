package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// requiredKeys must all be present in an imported or uploaded configuration.
var requiredKeys = []string{"icons", "positions", "size"}

// DecodeStrict parses a configuration that must carry every top-level key.
// It is used for file imports and uploads. Unknown size strings are coerced to
// small and reported as warnings. Missing keys, wrong value types and invalid
// element ids are errors.
func DecodeStrict(data []byte) (*Configuration, []ValidationWarning, error) {
	raw, err := decodeObject(data)
	if err != nil {
		return nil, nil, err
	}

	var missing []string
	for _, key := range requiredKeys {
		if _, ok := raw[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &FormatError{Reason: "missing keys: " + strings.Join(missing, ", "), Missing: missing}
	}

	cfg, warnings, err := decodeFields(raw, true)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Size == "" {
		warnings = append(warnings, ValidationWarning{
			Field:   "size",
			Message: "empty icon size, defaulting to small",
		})
	}
	warnings = append(warnings, cfg.Normalize()...)

	if bad := cfg.InvalidIDs(); len(bad) > 0 {
		return nil, nil, &FormatError{Reason: "invalid icon ids: " + strings.Join(bad, ", ")}
	}

	return cfg, warnings, nil
}

// DecodeLenient parses a configuration returned by the backend. Only the
// outer shape is enforced: missing keys fall back to their defaults and icons
// with invalid ids are dropped with a warning.
func DecodeLenient(data []byte) (*Configuration, []ValidationWarning, error) {
	raw, err := decodeObject(data)
	if err != nil {
		return nil, nil, err
	}

	cfg, warnings, err := decodeFields(raw, false)
	if err != nil {
		return nil, nil, err
	}
	warnings = append(warnings, cfg.Normalize()...)

	// Strict decoding rejects these ids, so they are dropped here to keep
	// every loaded configuration importable.
	for _, id := range cfg.InvalidIDs() {
		delete(cfg.Icons, id)
		delete(cfg.Positions, id)
		warnings = append(warnings, ValidationWarning{
			Field:   "icons",
			Value:   id,
			Message: "icon id is not a valid element id, icon dropped",
		})
	}

	return cfg, warnings, nil
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &FormatError{Reason: "payload is not a JSON object", Err: err}
	}
	if raw == nil {
		return nil, &FormatError{Reason: "payload is null"}
	}
	return raw, nil
}

// decodeFields unmarshals the known keys. A size that is not a string is an
// error when strict is set and is coerced to small otherwise.
func decodeFields(raw map[string]json.RawMessage, strict bool) (*Configuration, []ValidationWarning, error) {
	cfg := &Configuration{}
	var warnings []ValidationWarning

	if v, ok := raw["icons"]; ok {
		if err := json.Unmarshal(v, &cfg.Icons); err != nil {
			return nil, nil, &FormatError{Reason: "icons must be an object", Err: err}
		}
	}
	if v, ok := raw["positions"]; ok {
		if err := json.Unmarshal(v, &cfg.Positions); err != nil {
			return nil, nil, &FormatError{Reason: "positions must be an object", Err: err}
		}
	}
	if v, ok := raw["size"]; ok && string(v) != "null" {
		var size string
		if err := json.Unmarshal(v, &size); err != nil {
			if strict {
				return nil, nil, &FormatError{Reason: "size must be a string", Err: err}
			}
			warnings = append(warnings, ValidationWarning{
				Field:   "size",
				Value:   string(v),
				Message: fmt.Sprintf("icon size is not a string, defaulting to %s", SizeSmall),
			})
			size = string(SizeSmall)
		}
		cfg.Size = Size(size)
	}

	return cfg, warnings, nil
}
