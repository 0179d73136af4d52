package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpuschat/internal/store"
)

func TestAssembleOrdering(t *testing.T) {
	assembler := NewAssembler(0)
	history := []store.Turn{
		{Role: store.RoleUser, Content: "first question"},
		{Role: store.RoleAssistant, Content: "first answer"},
		{Role: "model", Content: "legacy role"},
	}

	messages := assembler.Assemble("some context", history, "current question")
	require.Len(t, messages, 5)

	assert.Equal(t, RoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, "some context")

	assert.Equal(t, RoleUser, messages[1].Role)
	assert.Equal(t, "first question", messages[1].Content)
	assert.Equal(t, RoleAssistant, messages[2].Role)
	assert.Equal(t, "first answer", messages[2].Content)

	// Any non-user role maps to assistant.
	assert.Equal(t, RoleAssistant, messages[3].Role)

	assert.Equal(t, RoleUser, messages[4].Role)
	assert.Equal(t, "current question", messages[4].Content)
}

func TestAssembleSystemMessageContainsContextSection(t *testing.T) {
	assembler := NewAssembler(0)
	chunk := "Our return policy allows refunds within 30 days."

	messages := assembler.Assemble(chunk, nil, "How long do I have to return an item?")
	require.NotEmpty(t, messages)

	expected := fmt.Sprintf(systemPromptTemplate, chunk)
	assert.Equal(t, expected, messages[0].Content)
}

func TestAssembleEmptyContextStillValid(t *testing.T) {
	assembler := NewAssembler(0)

	messages := assembler.Assemble("", nil, "hello")
	require.Len(t, messages, 2)
	assert.Equal(t, RoleSystem, messages[0].Role)
	assert.Equal(t, RoleUser, messages[1].Role)
	assert.Equal(t, "hello", messages[1].Content)
}

func TestAssembleTrimsOldestHistoryFirst(t *testing.T) {
	assembler := NewAssembler(2)
	history := []store.Turn{
		{Role: store.RoleUser, Content: "old question"},
		{Role: store.RoleAssistant, Content: "old answer"},
		{Role: store.RoleUser, Content: "recent question"},
		{Role: store.RoleAssistant, Content: "recent answer"},
	}

	messages := assembler.Assemble("", history, "now")
	require.Len(t, messages, 4) // system + 2 kept turns + current

	assert.Equal(t, "recent question", messages[1].Content)
	assert.Equal(t, "recent answer", messages[2].Content)
	assert.Equal(t, "now", messages[3].Content)
}

func TestAssembleUnboundedHistoryByDefault(t *testing.T) {
	assembler := NewAssembler(0)
	history := make([]store.Turn, 50)
	for i := range history {
		history[i] = store.Turn{Role: store.RoleUser, Content: "turn"}
	}

	messages := assembler.Assemble("", history, "now")
	assert.Len(t, messages, 52)
}
