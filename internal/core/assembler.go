package core

import (
	"fmt"

	"corpuschat/internal/store"
)

// systemPromptTemplate fixes the assistant's behavior: answers are scoped to
// the company corpus, short, and conversational. The retrieval context is
// interpolated into the final section; on retrieval failure that section is
// simply empty and the turn proceeds as context-free chat.
const systemPromptTemplate = `You are a focused customer service representative.
Only answer questions related to the provided company information.
If the question is unrelated to the company or the context does not contain relevant information, politely say you can only help with company-related questions.
Match the tone and phrasing of the context and the user when appropriate.
Keep responses short, human and concise.
Company Context:
%s`

// Assembler builds the bounded message sequence sent to the generative
// model: one system message, trimmed history, then the current user message.
type Assembler struct {
	maxHistoryTurns int
}

// NewAssembler creates an Assembler. maxHistoryTurns bounds how many trailing
// history turns are replayed to the model, evicting oldest-first; 0 sends the
// full history unbounded.
func NewAssembler(maxHistoryTurns int) *Assembler {
	if maxHistoryTurns < 0 {
		maxHistoryTurns = 0
	}
	return &Assembler{maxHistoryTurns: maxHistoryTurns}
}

func (a *Assembler) Assemble(retrievedContext string, history []store.Turn, currentMessage string) []Message {
	if a.maxHistoryTurns > 0 && len(history) > a.maxHistoryTurns {
		history = history[len(history)-a.maxHistoryTurns:]
	}

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{
		Role:    RoleSystem,
		Content: fmt.Sprintf(systemPromptTemplate, retrievedContext),
	})
	for _, turn := range history {
		role := RoleAssistant
		if turn.Role == store.RoleUser {
			role = RoleUser
		}
		messages = append(messages, Message{Role: role, Content: turn.Content})
	}
	messages = append(messages, Message{Role: RoleUser, Content: currentMessage})
	return messages
}
