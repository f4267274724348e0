package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmchat/lmchat/internal/models"
)

func TestOpenCreatesStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.db")

	st, err := Open(path)
	require.NoError(t, err)
	defer st.Close()

	history, err := st.History()
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Equal(t, path, st.Path())
}

func TestOpenUnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "nested", "chat.db")

	_, err := Open(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestOpenRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.db")
	require.NoError(t, os.WriteFile(path, []byte("this is not a database\n"), 0o644))

	_, err := Open(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestCreateRefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.db")

	st, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	_, err = Create(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestAppendHistoryOrder(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	defer st.Close()

	inputs := []struct {
		role    string
		content string
	}{
		{models.RoleUser, "first"},
		{models.RoleAssistant, "second"},
		{models.RoleUser, "third"},
	}

	var seqs []int64
	for _, in := range inputs {
		seq, err := st.Append(in.role, in.content)
		require.NoError(t, err)
		seqs = append(seqs, seq)
	}

	history, err := st.History()
	require.NoError(t, err)
	require.Len(t, history, len(inputs))

	for i, msg := range history {
		assert.Equal(t, inputs[i].role, msg.Role)
		assert.Equal(t, inputs[i].content, msg.Content)
		assert.Equal(t, seqs[i], msg.Seq)
		if i > 0 {
			assert.Greater(t, msg.Seq, history[i-1].Seq)
		}
	}
	assert.Equal(t, int64(1), history[0].Seq)
}

func TestHistoryIncludesLatestAppend(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	defer st.Close()

	_, err = st.Append(models.RoleUser, "hello")
	require.NoError(t, err)
	seq, err := st.Append(models.RoleAssistant, "hi")
	require.NoError(t, err)

	history, err := st.History()
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.Equal(t, seq, history[len(history)-1].Seq)
	assert.Equal(t, "hi", history[len(history)-1].Content)
}

func TestClear(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	defer st.Close()

	// Clearing an empty store succeeds silently.
	require.NoError(t, st.Clear())

	last, err := st.Append(models.RoleUser, "hello")
	require.NoError(t, err)

	require.NoError(t, st.Clear())

	history, err := st.History()
	require.NoError(t, err)
	assert.Empty(t, history)

	// Sequence numbers are never reused after a clear.
	next, err := st.Append(models.RoleUser, "again")
	require.NoError(t, err)
	assert.Greater(t, next, last)
}

func TestDurabilityRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.db")

	st, err := Open(path)
	require.NoError(t, err)
	_, err = st.Append(models.RoleUser, "remember me")
	require.NoError(t, err)
	require.NoError(t, st.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	history, err := reopened.History()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.RoleUser, history[0].Role)
	assert.Equal(t, "remember me", history[0].Content)
}
