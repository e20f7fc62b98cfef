package whisper

import (
	"fmt"
	"strings"
)

// Model identifies a whisper model size.
type Model string

// Supported model sizes, smallest to largest.
const (
	ModelTiny   Model = "tiny"
	ModelBase   Model = "base"
	ModelSmall  Model = "small"
	ModelMedium Model = "medium"
	ModelLarge  Model = "large"
)

// DefaultModel balances speed and quality for typical videos.
const DefaultModel = ModelBase

func (m Model) String() string {
	return string(m)
}

// Models lists the supported sizes in ascending cost order.
func Models() []Model {
	return []Model{ModelTiny, ModelBase, ModelSmall, ModelMedium, ModelLarge}
}

// ModelNames returns the supported sizes as a comma-separated list for
// usage and error text.
func ModelNames() string {
	names := make([]string, 0, len(Models()))
	for _, m := range Models() {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}

// ParseModel validates a model size. Empty input selects the default.
func ParseModel(value string) (Model, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return DefaultModel, nil
	}
	for _, m := range Models() {
		if string(m) == trimmed {
			return m, nil
		}
	}
	return "", fmt.Errorf("whisper model: unknown size %q (choose from %s)", value, ModelNames())
}
