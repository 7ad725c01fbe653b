package generation

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

type scriptedStream struct {
	frags  []string
	err    error
	pos    int
	closed bool
}

func (s *scriptedStream) Recv() (string, error) {
	if s.pos >= len(s.frags) {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	frag := s.frags[s.pos]
	s.pos++
	return frag, nil
}

func (s *scriptedStream) Close() error {
	s.closed = true
	return nil
}

func TestAssembleAccumulatesAndRendersIncrementally(t *testing.T) {
	s := &scriptedStream{frags: []string{"Hel", "lo", "\n"}}

	var partials []string
	got, err := Assemble(s, func(partial string) {
		partials = append(partials, partial)
	})

	assert.NoError(t, err)
	assert.Equal(t, "Hello\n", got)
	assert.Equal(t, []string{"Hel", "Hello", "Hello\n"}, partials)
	assert.True(t, s.closed)
}

func TestAssembleDiscardsPartialOnError(t *testing.T) {
	s := &scriptedStream{frags: []string{"partial "}, err: errors.New("connection reset")}

	got, err := Assemble(s, nil)

	assert.Error(t, err)
	assert.Equal(t, "", got)
	assert.True(t, s.closed)
}
