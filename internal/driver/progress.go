package driver

// Stage identifies which pass of the pipeline a progress Event describes.
type Stage string

const (
	// StageLex is the tokenization pass.
	StageLex Stage = "lex"
	// StageParse is the expression/declaration parsing pass.
	StageParse Stage = "parse"
)

// Status captures where a file sits within a Stage.
type Status string

const (
	// StatusQueued indicates the file is waiting for a worker slot.
	StatusQueued Status = "queued"
	// StatusWorking indicates a worker is actively lexing/parsing the file.
	StatusWorking Status = "working"
	// StatusDone indicates the file finished without a fatal error.
	StatusDone Status = "done"
	// StatusError indicates the file could not be loaded at all (a
	// diagnostic-level parse error still reports StatusDone; StatusError
	// is reserved for I/O failures).
	StatusError Status = "error"
)

// Event reports one file's progress through TokenizeDir or ParseDir.
type Event struct {
	File   string
	Stage  Stage
	Status Status
	Err    error
}

// ProgressSink consumes progress events emitted by a directory run. Nil is
// a valid sink: TokenizeDir/ParseDir skip emission entirely when no sink
// is supplied.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events onto a channel, for a consumer (e.g. the
// CLI's bubbletea progress view) that wants to observe them as they
// happen rather than after the whole directory run completes.
type ChannelSink struct {
	Ch chan<- Event
}

// OnEvent forwards evt to the channel, or does nothing if Ch is nil.
func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, file string, stage Stage, status Status, err error) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err})
}
