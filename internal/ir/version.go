package ir

// Version constants for the rule IR and the compiler.
const (
	// IRVersion is the rule item schema version.
	IRVersion = "1"

	// CompilerVersion is the streamrule compiler version.
	CompilerVersion = "0.1.0"
)
