package configstore

import (
	"encoding/json"
	"fmt"

	"github.com/MrSnakeDoc/desk/internal/domain"
)

// ExportFileName is the name offered for downloaded configurations.
const ExportFileName = "win98_config.json"

// Export renders cfg as indented JSON suitable for a download.
func Export(cfg *domain.Configuration) ([]byte, error) {
	if cfg == nil {
		cfg = domain.Empty()
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal configuration: %w", err)
	}
	return append(data, '\n'), nil
}

// Import parses an exported configuration. It fails with *domain.FormatError
// when the payload is not an object carrying icons, positions and size; an
// unknown size is coerced to small and reported in the returned warnings.
// Nothing is persisted.
func Import(data []byte) (*domain.Configuration, []domain.ValidationWarning, error) {
	return domain.DecodeStrict(data)
}
