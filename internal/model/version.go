package model

// Version constants for the model schema and verifier.
const (
	// SchemaVersion is the machine snapshot schema version.
	SchemaVersion = "1"

	// EngineVersion is the fsmcheck verifier version.
	EngineVersion = "0.1.0"
)
