package session

import (
	"testing"
	"time"

	"github.com/lshigami/Margays/internal/apperr"
	"github.com/lshigami/Margays/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerStoreUpsertAndGet(t *testing.T) {
	store := NewAnswerStore(5)

	stored, changed, err := store.Upsert(2, "my answer", model.AnswerSourceTyped)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 2, stored.QuestionIndex)
	assert.Equal(t, "my answer", stored.Text)
	assert.False(t, stored.LastModified.IsZero())

	got, ok := store.Get(2)
	require.True(t, ok)
	assert.Equal(t, "my answer", got.Text)

	_, ok = store.Get(3)
	assert.False(t, ok)
}

func TestAnswerStoreUpsertRejectsOutOfRangeIndex(t *testing.T) {
	store := NewAnswerStore(5)

	for _, index := range []int{-1, 5, 100} {
		_, _, err := store.Upsert(index, "text", model.AnswerSourceTyped)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	}
}

func TestAnswerStoreIdenticalRewriteIsNoOp(t *testing.T) {
	store := NewAnswerStore(3)

	first, changed, err := store.Upsert(0, "same text", model.AnswerSourceTyped)
	require.NoError(t, err)
	require.True(t, changed)

	time.Sleep(2 * time.Millisecond)
	second, changed, err := store.Upsert(0, "same text", model.AnswerSourceVoice)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, first.LastModified, second.LastModified, "identical rewrite must not touch LastModified")
	assert.Equal(t, model.AnswerSourceTyped, second.Source)
}

func TestAnswerStoreLastWriteWinsAcrossSources(t *testing.T) {
	store := NewAnswerStore(3)

	_, _, err := store.Upsert(1, "typed draft", model.AnswerSourceTyped)
	require.NoError(t, err)

	stored, changed, err := store.Upsert(1, "voice transcript", model.AnswerSourceVoice)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "voice transcript", stored.Text)
	assert.Equal(t, model.AnswerSourceVoice, stored.Source)
}

func TestAnswerStoreAddTimeAccumulatesAcrossVisits(t *testing.T) {
	store := NewAnswerStore(3)

	stored, ok := store.AddTime(0, 30)
	require.True(t, ok)
	assert.Equal(t, 30, stored.TimeSpentSec)
	assert.Empty(t, stored.Text, "time tracking alone must not mark the question answered")

	stored, ok = store.AddTime(0, 45)
	require.True(t, ok)
	assert.Equal(t, 75, stored.TimeSpentSec)

	_, ok = store.AddTime(9, 10)
	assert.False(t, ok)
	_, ok = store.AddTime(0, -5)
	assert.False(t, ok)
}

func TestAnswerStoreSnapshotIsOrdered(t *testing.T) {
	store := NewAnswerStore(5)
	for _, index := range []int{4, 0, 2} {
		_, _, err := store.Upsert(index, "answer", model.AnswerSourceTyped)
		require.NoError(t, err)
	}

	snapshot := store.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, []int{0, 2, 4}, []int{snapshot[0].QuestionIndex, snapshot[1].QuestionIndex, snapshot[2].QuestionIndex})
}

func TestAnswerStoreCompletionFraction(t *testing.T) {
	store := NewAnswerStore(4)
	assert.Zero(t, store.CompletionFraction())

	_, _, err := store.Upsert(0, "answered", model.AnswerSourceTyped)
	require.NoError(t, err)
	_, _, err = store.Upsert(1, "", model.AnswerSourceTyped)
	require.NoError(t, err)
	store.AddTime(2, 60)

	assert.Equal(t, 1, store.AnsweredCount(), "empty text and visited-only questions do not count")
	assert.InDelta(t, 0.25, store.CompletionFraction(), 1e-9)
}

func TestAnswerStoreLoadSeedsPersistedRows(t *testing.T) {
	store := NewAnswerStore(3)
	store.Load([]model.Answer{
		{QuestionIndex: 0, Text: "restored", Source: model.AnswerSourceTyped, TimeSpentSec: 40},
		{QuestionIndex: 7, Text: "out of range", Source: model.AnswerSourceTyped},
	})

	got, ok := store.Get(0)
	require.True(t, ok)
	assert.Equal(t, "restored", got.Text)
	assert.Equal(t, 40, got.TimeSpentSec)

	_, ok = store.Get(7)
	assert.False(t, ok)
	assert.Equal(t, 1, store.AnsweredCount())
}
