package chat

// Request is the body of a chat call.
type Request struct {
	Message string `json:"message"`
}

// Response is the result of a synchronous chat call.
type Response struct {
	Answer string `json:"answer"`
}

// EventType tags a StreamEvent.
type EventType int

const (
	EventToken EventType = iota
	EventDone
	EventError
)

func (t EventType) String() string {
	switch t {
	case EventToken:
		return "token"
	case EventDone:
		return "done"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// StreamEvent is one element of a chat stream. A stream is zero or more
// Token events followed by exactly one Done or Error event.
type StreamEvent struct {
	Type EventType
	// Text is the fragment for Token events and the message for Error events.
	Text string
}

// Token returns a Token event carrying text.
func Token(text string) StreamEvent { return StreamEvent{Type: EventToken, Text: text} }

// Done returns the terminal success event.
func Done() StreamEvent { return StreamEvent{Type: EventDone} }

// ErrorEvent returns the terminal failure event.
func ErrorEvent(message string) StreamEvent { return StreamEvent{Type: EventError, Text: message} }

// Terminal reports whether no event may follow e.
func (e StreamEvent) Terminal() bool { return e.Type != EventToken }
