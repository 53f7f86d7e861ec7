package types

// OutputMode represents the output style of operator-facing commands
type OutputMode int

const (
	// OutputModeInteractive shows spinners and styled tables
	OutputModeInteractive OutputMode = iota
	// OutputModeCI shows plain text, no spinners
	OutputModeCI
)
