package eventpubsub

const (
	NewCompletedBarEvent = "NewCompletedBarEvent"
	NewSignalEvent       = "NewSignalEvent"
	TerminalErrorEvent   = "TerminalErrorEvent"
)
