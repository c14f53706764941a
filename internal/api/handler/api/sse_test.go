package api

import (
	"testing"

	"github.com/newthinker/chatrelay/internal/chat"
)

func TestEncodeEvent(t *testing.T) {
	tests := []struct {
		name  string
		event chat.StreamEvent
		want  string
	}{
		{"token", chat.Token("Hi"), "data: {\"token\":\"Hi\"}\n\n"},
		{"token with newline", chat.Token("a\nb"), "data: {\"token\":\"a\\nb\"}\n\n"},
		{"token with markup", chat.Token("<b>&"), "data: {\"token\":\"<b>&\"}\n\n"},
		{"done", chat.Done(), "data: [DONE]\n\n"},
		{"error", chat.ErrorEvent("boom"), "event: error\ndata: {\"error\":\"boom\"}\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeEvent(tt.event)
			if err != nil {
				t.Fatalf("encodeEvent: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
