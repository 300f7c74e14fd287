package chat

type Conversation struct {
	Messages []Message
}

func NewConversation() Conversation {
	return Conversation{
		Messages: make([]Message, 0),
	}
}

func AddMessage(conv Conversation, msg Message) Conversation {
	messages := make([]Message, len(conv.Messages)+1)
	copy(messages, conv.Messages)
	messages[len(conv.Messages)] = msg

	return Conversation{Messages: messages}
}

func GetMessages(conv Conversation) []Message {
	result := make([]Message, len(conv.Messages))
	copy(result, conv.Messages)
	return result
}

func GetMessageCount(conv Conversation) int {
	return len(conv.Messages)
}

func IsEmpty(conv Conversation) bool {
	return len(conv.Messages) == 0
}

// ToTurns converts the conversation to the wire history format. Only user
// and assistant messages are part of the exchange the backend sees.
func ToTurns(messages []Message) []Turn {
	turns := make([]Turn, 0, len(messages))
	for _, msg := range messages {
		if !msg.IsUser() && !msg.IsAssistant() {
			continue
		}
		turns = append(turns, Turn{Role: msg.Role, Content: msg.Content})
	}
	return turns
}
