package models

// ChatPart is one text fragment of a turn.
type ChatPart struct {
	Text string `json:"text"`
}

// ChatMessage is one turn of a conversation, in the shape the generative API
// expects.
type ChatMessage struct {
	Role  string     `json:"role"`
	Parts []ChatPart `json:"parts"`
}

// NewChatMessage creates a single part message.
func NewChatMessage(role, text string) ChatMessage {
	return ChatMessage{
		Role:  role,
		Parts: []ChatPart{{Text: text}},
	}
}

// ChatHistory is the ordered list of turns of one conversation.
type ChatHistory []ChatMessage

// ChatRequest is the body of a chat call.
type ChatRequest struct {
	Message string `json:"message" validate:"max=32000"`
}

// ChatReply is returned for a successful chat call.
type ChatReply struct {
	Response string `json:"response"`
}
