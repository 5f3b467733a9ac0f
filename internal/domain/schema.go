package domain

import (
	"fmt"
	"strings"
)

// SchemaKind tags which source layout a raw table uses.
type SchemaKind int

const (
	// SchemaAuto asks the ingestor to detect the layout from the header.
	SchemaAuto SchemaKind = iota
	// SchemaMultiField carries the timestamp as six discrete numeric columns.
	SchemaMultiField
	// SchemaEpoch carries the timestamp as seconds since a reference instant.
	SchemaEpoch
)

func (k SchemaKind) String() string {
	switch k {
	case SchemaAuto:
		return "auto"
	case SchemaMultiField:
		return "multi-field"
	case SchemaEpoch:
		return "epoch"
	default:
		return fmt.Sprintf("SchemaKind(%d)", int(k))
	}
}

// ParseSchemaKind accepts "auto", "multi-field" (or "multi") and "epoch".
func ParseSchemaKind(s string) (SchemaKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return SchemaAuto, nil
	case "multi-field", "multifield", "multi":
		return SchemaMultiField, nil
	case "epoch":
		return SchemaEpoch, nil
	default:
		return SchemaAuto, fmt.Errorf("unknown schema kind %q", s)
	}
}
