package chat

import (
	"strings"

	"github.com/quillhq/quill-backend/internal/entity"
)

const (
	// historyLimit caps the conversation turns fed into the prompt. The
	// history read happens after the user turn is persisted, so the current
	// question is the last entry and appears again in USER INPUT.
	historyLimit = 6

	// contextLimit caps the retrieved passages fed into the prompt.
	contextLimit = 4

	sectionSeparator = "\n----------------\n"

	systemPrompt = "Use the following pieces of context (or previous conversation if needed) to answer the users question in markdown format."

	// fallbackResponse is persisted and returned when the model produces no
	// content.
	fallbackResponse = "Sorry, I couldn't generate a response."
)

// buildPrompt assembles the grounded user prompt: the directive, the
// PREVIOUS CONVERSATION block, the CONTEXT block and the USER INPUT line,
// delimited by section separators. Returns the system and user messages.
func buildPrompt(history []*entity.Message, passages []entity.Passage, question string) (string, string) {
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	if len(passages) > contextLimit {
		passages = passages[:contextLimit]
	}

	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString(" \nIf you don't know the answer, just say that you don't know, don't try to make up an answer.")
	b.WriteString(sectionSeparator)

	b.WriteString("PREVIOUS CONVERSATION:\n")
	for _, msg := range history {
		if msg.IsUserMessage {
			b.WriteString("User: ")
		} else {
			b.WriteString("Assistant: ")
		}
		b.WriteString(msg.Text)
		b.WriteString("\n")
	}
	b.WriteString(sectionSeparator)

	b.WriteString("CONTEXT:\n")
	for i, p := range passages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(p.PageContent)
	}
	b.WriteString("\n\nUSER INPUT: ")
	b.WriteString(question)

	return systemPrompt, b.String()
}
