package gateway

import (
	"strings"

	"github.com/govscout/govscout/src/models"
)

// systemPrompt is injected for every provider, positioned as each provider's
// native system concept: a leading message for OpenAI, the dedicated system
// field for Anthropic, a text prefix for Hugging Face.
const systemPrompt = "You are GovScout, an expert assistant for U.S. federal government contracting. " +
	"You help users find and understand SAM.gov contract opportunities, NAICS codes, " +
	"set-aside programs, proposal strategy, and federal acquisition regulations. " +
	"Give clear, practical answers grounded in how federal procurement actually works."

// buildTranscript renders non-system turns as an alternating
// "Human:"/"Assistant:" conversation, optionally prefixed with the system
// prompt, ending with an open Assistant turn for the model to complete.
func buildTranscript(messages []models.ChatMessage, withSystemPrefix bool) string {
	var sb strings.Builder
	if withSystemPrefix {
		sb.WriteString(systemPrompt)
	}

	for _, msg := range messages {
		if msg.Role == "system" {
			continue
		}
		if msg.Role == "assistant" {
			sb.WriteString("\n\nAssistant: ")
		} else {
			sb.WriteString("\n\nHuman: ")
		}
		sb.WriteString(msg.Content)
	}

	sb.WriteString("\n\nAssistant:")
	return sb.String()
}

// withoutSystemTurns filters system-role entries; the system prompt is
// injected through each provider's own mechanism instead.
func withoutSystemTurns(messages []models.ChatMessage) []models.ChatMessage {
	filtered := make([]models.ChatMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == "system" {
			continue
		}
		filtered = append(filtered, msg)
	}
	return filtered
}
