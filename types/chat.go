package types

// Message represents a single message in the conversation
type Message struct {
	Role    string `bson:"role" json:"role"`
	Content string `bson:"content" json:"content"`
}

type ChatRequest struct {
	DocumentID string    `json:"document_id"`
	Message    string    `json:"message"`
	History    []Message `json:"history,omitempty"`
}

type ChatResponse struct {
	Response  string     `json:"response"`
	Citations []Citation `json:"citations"`
}

// ChatHistoryEntry is one persisted exchange message for a document.
type ChatHistoryEntry struct {
	ID         string     `bson:"_id" json:"id"`
	DocumentID string     `bson:"document_id" json:"document_id"`
	Sender     string     `bson:"sender" json:"sender"`
	Text       string     `bson:"text" json:"text"`
	Citations  []Citation `bson:"citations,omitempty" json:"citations,omitempty"`
	CreatedAt  int64      `bson:"created_at" json:"created_at"`
}

const (
	ChatSenderUser = "user"
	ChatSenderBot  = "bot"
)
