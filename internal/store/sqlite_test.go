package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	// A file-backed database: ":memory:" gives every pooled connection its
	// own empty database.
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func turn(role, content string) Turn {
	return Turn{Role: role, Content: content, Timestamp: time.Now().UTC()}
}

func TestSaveExchangeCreatesAndAppends(t *testing.T) {
	st := newTestStore(t)

	err := st.SaveExchange("conv-1", turn(RoleUser, "q1"), turn(RoleAssistant, "a1"), "ctx one")
	require.NoError(t, err)
	err = st.SaveExchange("conv-1", turn(RoleUser, "q2"), turn(RoleAssistant, "a2"), "ctx two")
	require.NoError(t, err)

	conv, err := st.GetConversation("conv-1")
	require.NoError(t, err)
	require.NotNil(t, conv)

	assert.Equal(t, "conv-1", conv.ID)
	assert.Equal(t, "ctx two", conv.Context, "context reflects the latest exchange")
	require.Len(t, conv.Turns, 4)
	assert.Equal(t, "q1", conv.Turns[0].Content)
	assert.Equal(t, "a1", conv.Turns[1].Content)
	assert.Equal(t, "q2", conv.Turns[2].Content)
	assert.Equal(t, "a2", conv.Turns[3].Content)
	assert.Equal(t, RoleUser, conv.Turns[0].Role)
	assert.Equal(t, RoleAssistant, conv.Turns[1].Role)
	assert.False(t, conv.UpdatedAt.Before(conv.CreatedAt))
}

func TestGetConversationMissing(t *testing.T) {
	st := newTestStore(t)

	conv, err := st.GetConversation("nope")
	require.NoError(t, err)
	assert.Nil(t, conv)
}

func TestListConversationsSortedByMostRecentlyUpdated(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveExchange("conv-a", turn(RoleUser, "first question"), turn(RoleAssistant, "a"), ""))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, st.SaveExchange("conv-b", turn(RoleUser, "second question"), turn(RoleAssistant, "b"), ""))

	summaries, err := st.ListConversations()
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "conv-b", summaries[0].ID)
	assert.Equal(t, "conv-a", summaries[1].ID)
	assert.Equal(t, "first question", summaries[1].Preview)

	// Touching conv-a moves it back to the front.
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, st.SaveExchange("conv-a", turn(RoleUser, "q"), turn(RoleAssistant, "a"), ""))
	summaries, err = st.ListConversations()
	require.NoError(t, err)
	assert.Equal(t, "conv-a", summaries[0].ID)
}

func TestListConversationsEmpty(t *testing.T) {
	st := newTestStore(t)

	summaries, err := st.ListConversations()
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestSaveExchangeRejectsUnknownRole(t *testing.T) {
	st := newTestStore(t)

	err := st.SaveExchange("conv-1", turn("system", "x"), turn(RoleAssistant, "y"), "")
	assert.Error(t, err)
}
