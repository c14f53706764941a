package llm

import "io"

// Fragment is a structured unit of streamed output.
type Fragment struct {
	Text string
}

type texter interface {
	Text() string
}

// NormalizeFragment extracts the text carried by a chunk. It reports false
// for chunks that carry no text or whose text is empty.
func NormalizeFragment(chunk any) (string, bool) {
	var text string
	switch c := chunk.(type) {
	case string:
		text = c
	case Fragment:
		text = c.Text
	case *Fragment:
		if c == nil {
			return "", false
		}
		text = c.Text
	case texter:
		text = c.Text()
	default:
		return "", false
	}
	if text == "" {
		return "", false
	}
	return text, true
}

// SingleChunk returns a ChunkSource that yields text once. Clients without
// incremental delivery use it to serve Stream.
func SingleChunk(text string) ChunkSource {
	return &singleChunk{text: text}
}

type singleChunk struct {
	text string
	done bool
}

func (s *singleChunk) Recv() (any, error) {
	if s.done {
		return nil, io.EOF
	}
	s.done = true
	return s.text, nil
}

func (s *singleChunk) Close() error {
	s.done = true
	return nil
}
