// Package model はドメインモデルを定義する。
package model

import "time"

// Role はプロフィールに付与される権限を表す。
// 管理操作のアクセス制御はこの値のみを根拠とする。
type Role string

const (
	// RoleUser は一般ユーザー権限。サインアップ時のデフォルト。
	RoleUser Role = "user"
	// RoleAdmin は管理者権限。ダッシュボードと管理系APIにアクセスできる。
	RoleAdmin Role = "admin"
)

// Profile はサイト利用者のプロフィールを表す。
// IDはセッションのユーザーIDと一致する。roleの変更は運用作業でのみ行い、
// APIからは公開しない。
type Profile struct {
	ID        string
	Email     string
	Name      string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity は外部IdPとの紐付け情報を表す。
// 将来的に複数のIdP（Google, GitHub等）に対応可能な構造。
type Identity struct {
	ID             string
	ProfileID      string
	Provider       string
	ProviderUserID string
	CreatedAt      time.Time
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	ProfileID string
	ExpiresAt time.Time
	CreatedAt time.Time
}
