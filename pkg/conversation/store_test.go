package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type fakeKV struct {
	data    map[string]string
	getErr  error
	setErr  error
	delErr  error
	setKeys []string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		cmd := redis.NewStringCmd(ctx)
		cmd.SetErr(f.getErr)
		return cmd
	}
	val, ok := f.data[key]
	if !ok {
		cmd := redis.NewStringCmd(ctx)
		cmd.SetErr(redis.Nil)
		return cmd
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeKV) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		cmd := redis.NewStatusCmd(ctx)
		cmd.SetErr(f.setErr)
		return cmd
	}
	f.data[key] = value.(string)
	f.setKeys = append(f.setKeys, key)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeKV) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if f.delErr != nil {
		cmd := redis.NewIntCmd(ctx)
		cmd.SetErr(f.delErr)
		return cmd
	}
	for _, k := range keys {
		delete(f.data, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestRecordQuestionReturnsPriorHistory(t *testing.T) {
	kv := newFakeKV()
	s := NewStore(kv, time.Hour)
	ctx := context.Background()

	prior, err := s.RecordQuestion(ctx, "sess-1", "first")
	assert.NoError(t, err)
	assert.Equal(t, "", prior, "first turn has no prior context")

	prior, err = s.RecordQuestion(ctx, "sess-1", "second")
	assert.NoError(t, err)
	assert.Equal(t, "first", prior, "second turn sees only the first question")

	assert.Equal(t, "first,second", kv.data["conversation:sess-1"])
}

func TestRecordQuestionBackendFailure(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = errors.New("connection refused")
	s := NewStore(kv, time.Hour)

	prior, err := s.RecordQuestion(context.Background(), "sess-1", "q")
	assert.ErrorIs(t, err, ErrHistoryUnavailable)
	assert.Equal(t, "", prior)
}

func TestHistoryMissingSession(t *testing.T) {
	s := NewStore(newFakeKV(), time.Hour)

	got, err := s.History(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestClear(t *testing.T) {
	kv := newFakeKV()
	kv.data["conversation:sess-1"] = "a,b"
	s := NewStore(kv, time.Hour)

	assert.NoError(t, s.Clear(context.Background(), "sess-1"))
	assert.NotContains(t, kv.data, "conversation:sess-1")
}

func TestQuestions(t *testing.T) {
	assert.Nil(t, Questions(""))
	assert.Equal(t, []string{"a", "b", "c"}, Questions("a,b,c"))
}
