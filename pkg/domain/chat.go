package domain

// Chat is one conversation with the completion API. It lives in process
// memory only and is lost on restart.
type Chat struct {
	ID       int64
	Model    string
	Messages []Message
}

type Message struct {
	Role    string
	Content string
}

const (
	MessageRoleSystem    = "system"
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// MaxPromptLength caps a single user turn, in runes. Longer prompts fail
// before any upstream call is made.
const MaxPromptLength = 8192
