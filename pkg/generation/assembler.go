package generation

import (
	"io"
	"strings"
)

// Assemble drains a stream, concatenating fragments into the answer of
// record. After every fragment it invokes onUpdate with the running
// text so the caller can render partial answers as they arrive. On any
// stream error the partial text is discarded, not returned.
func Assemble(s Stream, onUpdate func(partial string)) (string, error) {
	defer s.Close()

	var b strings.Builder
	for {
		frag, err := s.Recv()
		if err == io.EOF {
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}
		b.WriteString(frag)
		if onUpdate != nil {
			onUpdate(b.String())
		}
	}
}
