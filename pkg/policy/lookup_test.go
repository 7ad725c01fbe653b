package policy

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"insurance-assistant-be/pkg/objectstore"
)

type fakeStore struct {
	objects map[string][]byte
	err     error
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, objectstore.ErrNotFound
	}
	return data, nil
}

func (f *fakeStore) Put(context.Context, string, io.Reader, int64, string) error {
	return nil
}

func TestGetPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("policy on file", func(t *testing.T) {
		l := NewLookup(&fakeStore{objects: map[string][]byte{
			"customer_policy/alice.txt": []byte("Comprehensive cover, excess £250.\n"),
		}}, "customer_policy/")

		got := l.GetPolicy(ctx, "alice")
		assert.Equal(t, "Comprehensive cover, excess £250.", got)
	})

	t.Run("object absent returns sentinel", func(t *testing.T) {
		l := NewLookup(&fakeStore{objects: map[string][]byte{}}, "customer_policy/")
		assert.Equal(t, NotFoundSentinel, l.GetPolicy(ctx, "bob"))
	})

	t.Run("storage failure returns sentinel", func(t *testing.T) {
		l := NewLookup(&fakeStore{err: errors.New("timeout")}, "customer_policy/")
		assert.Equal(t, NotFoundSentinel, l.GetPolicy(ctx, "carol"))
	})
}
