package ir

// Version constants for the record encoding and the engine.
const (
	// IRVersion is the record encoding version.
	IRVersion = "1"

	// EngineVersion is the inet engine version.
	EngineVersion = "0.1.0"
)
