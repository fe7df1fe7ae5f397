package model

// ChatMessage はチャットウィジェットの1発言を表す。
// 会話履歴はサーバー側に保持せず、クライアントが毎ターン全文を送り直す。
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// チャットメッセージのロール。
const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)
