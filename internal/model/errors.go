package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, conflict, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation        = "VALIDATION_FAILED"
	ErrCodeAlreadySubscribed = "ALREADY_SUBSCRIBED"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeUpstream          = "UPSTREAM_ERROR"
	ErrCodeConfigMissing     = "CONFIG_MISSING"
	ErrCodeNewsUnavailable   = "NEWS_UNAVAILABLE"
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
)

// NewValidationError は入力不備エラーを生成する。
// messageには不正だったフィールド・条件を必ず含めること。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
		Action:   "Please correct the highlighted field and try again.",
	}
}

// NewAlreadySubscribedError は重複購読エラーを生成する。
func NewAlreadySubscribedError() *APIError {
	return &APIError{
		Code:     ErrCodeAlreadySubscribed,
		Message:  "Email already subscribed",
		Category: "conflict",
		Action:   "This address is already on the list. No action needed.",
	}
}

// NewUnauthorizedError は認証・権限不足エラーを生成する。
// セッションなし・プロフィールなし・role不一致のいずれもこのエラーに倒す
// （フェイルクローズド）。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Unauthorized",
		Category: "auth",
		Action:   "Sign in with an account that has the required permissions.",
	}
}

// NewUpstreamError は依存先（DB、メール送信、LLMプロバイダー等）の障害を表す
// エラーを生成する。依存先の生のエラーはログにのみ残し、クライアントには
// 汎用メッセージを返す。
func NewUpstreamError() *APIError {
	return &APIError{
		Code:     ErrCodeUpstream,
		Message:  "Internal server error",
		Category: "system",
		Action:   "Please try again in a moment.",
	}
}

// NewConfigMissingError は必須設定の未設定を表すエラーを生成する。
// 設定不足は黙ってno-opにせず、明示的なエラーとして応答する。
func NewConfigMissingError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeConfigMissing,
		Message:  fmt.Sprintf("Server configuration missing: %s", name),
		Category: "system",
		Action:   "Contact the site operator.",
	}
}

// NewNewsUnavailableError はニュースフィードの取得失敗を表すエラーを生成する。
func NewNewsUnavailableError() *APIError {
	return &APIError{
		Code:     ErrCodeNewsUnavailable,
		Message:  "News feed is currently unavailable",
		Category: "system",
		Action:   "Please try again later.",
	}
}

// NewInvalidRequestError はリクエストボディの形式不正を表すエラーを生成する。
func NewInvalidRequestError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  message,
		Category: "validation",
		Action:   "Send the request in the documented JSON format.",
	}
}
