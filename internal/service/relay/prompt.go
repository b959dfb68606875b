package relay

import (
	"fmt"
	"strings"

	"github.com/vivekdev/portfolio/backend/internal/model/chat"
	"github.com/vivekdev/portfolio/backend/internal/model/profile"
)

// SerializeTranscript flattens the transcript into one "Label: content" line per message.
func SerializeTranscript(messages []chat.Message) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, roleLabel(msg.Role)+": "+msg.Content)
	}
	return strings.Join(lines, "\n")
}

// LastUserMessage returns the last user-role message by position.
func LastUserMessage(messages []chat.Message) (chat.Message, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == chat.RoleUser {
			return messages[i], true
		}
	}
	return chat.Message{}, false
}

// BuildPrompt renders persona, transcript and active query into one prompt.
// The transcript must contain at least one user message.
func BuildPrompt(p profile.Profile, messages []chat.Message) (string, error) {
	query, ok := LastUserMessage(messages)
	if !ok {
		return "", ErrMissingUserMessage
	}

	var builder strings.Builder
	builder.WriteString(personaBlock(p))
	builder.WriteString("\n\nPrevious conversation:\n")
	builder.WriteString(SerializeTranscript(messages))
	builder.WriteString("\n\nUser: ")
	builder.WriteString(query.Content)
	builder.WriteString("\n\n")
	builder.WriteString(instructionBlock(p))
	return builder.String(), nil
}

func roleLabel(role chat.Role) string {
	if role == chat.RoleUser {
		return "User"
	}
	return "Assistant"
}

func personaBlock(p profile.Profile) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "You are an AI assistant for %s, a %s with %s of experience.\n\n", p.Name, p.Title, p.Experience)
	fmt.Fprintf(&builder, "About %s:\n", p.ShortName)
	fmt.Fprintf(&builder, "- %s with expertise in %s\n", p.Title, joinList(p.Expertise))
	fmt.Fprintf(&builder, "- %s of professional experience\n", p.Experience)
	fmt.Fprintf(&builder, "- Skills: %s\n", strings.Join(p.Skills, ", "))
	fmt.Fprintf(&builder, "- Previous work at %s\n", strings.Join(p.Employers, " and "))
	fmt.Fprintf(&builder, "- Projects include %s, and more\n", strings.Join(p.Projects, ", "))
	fmt.Fprintf(&builder, "- Based in %s\n", p.Location)
	fmt.Fprintf(&builder, "- Contact: %s, %s", p.Email, p.Phone)
	return builder.String()
}

func instructionBlock(p profile.Profile) string {
	return fmt.Sprintf(`Provide a helpful, friendly, and concise response as %s's assistant.
Focus on guiding the user about %s's skills, experience, and how to hire %s.
Keep your response under 150 words.`, p.ShortName, p.ShortName, p.Pronoun)
}

// joinList renders "a, b, and c".
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
