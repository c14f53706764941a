package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/newthinker/chatrelay/internal/chat"
)

// doneSentinel is the data payload of the final success frame.
const doneSentinel = "[DONE]"

type tokenPayload struct {
	Token string `json:"token"`
}

type errorPayload struct {
	Error string `json:"error"`
}

// eventWriter frames chat events as server-sent events and flushes each one.
type eventWriter struct {
	w  io.Writer
	rc *http.ResponseController
}

func newEventWriter(w http.ResponseWriter, rc *http.ResponseController) *eventWriter {
	return &eventWriter{w: w, rc: rc}
}

// Write sends one event frame.
func (e *eventWriter) Write(ev chat.StreamEvent) error {
	frame, err := encodeEvent(ev)
	if err != nil {
		return err
	}
	if _, err := e.w.Write(frame); err != nil {
		return err
	}
	if err := e.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}

// encodeEvent renders ev as a complete frame including the blank line
// terminator.
func encodeEvent(ev chat.StreamEvent) ([]byte, error) {
	var buf bytes.Buffer

	switch ev.Type {
	case chat.EventDone:
		buf.WriteString("data: " + doneSentinel + "\n\n")
		return buf.Bytes(), nil
	case chat.EventError:
		buf.WriteString("event: error\n")
		if err := writeData(&buf, errorPayload{Error: ev.Text}); err != nil {
			return nil, err
		}
	default:
		if err := writeData(&buf, tokenPayload{Token: ev.Text}); err != nil {
			return nil, err
		}
	}

	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// writeData writes a data line. The encoder terminates it with a newline and
// escapes embedded newlines, so payloads never split the frame.
func writeData(buf *bytes.Buffer, v any) error {
	buf.WriteString("data: ")
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
