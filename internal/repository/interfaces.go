// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/nexusstudios/nexus-web/internal/model"
)

// ErrDuplicateEmail はemail_subscribersのUNIQUE制約違反を表す。
// 一意性の判定は事前チェックではなくストレージ制約に委ね、
// 制約違反をこのエラーに変換して返す。
var ErrDuplicateEmail = errors.New("email already subscribed")

// ProfileRepository はプロフィールの永続化インターフェース。
type ProfileRepository interface {
	// FindByID は指定IDのプロフィールを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Profile, error)

	// CreateWithIdentity はプロフィールとidentityを同一トランザクションで作成する。
	// サインアップ時のroleは常に'user'（roleの昇格は運用作業でのみ行う）。
	CreateWithIdentity(ctx context.Context, profile *model.Profile, identity *model.Identity) error
}

// IdentityRepository は外部IdP紐付け情報の永続化インターフェース。
type IdentityRepository interface {
	// FindByProviderAndProviderUserID はproviderとprovider_user_idでidentityを検索する。
	// 見つからない場合はnilを返す。
	FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByProfileID は指定プロフィールの全セッションを削除する。
	DeleteByProfileID(ctx context.Context, profileID string) error
}

// SubscriberRepository はニュースレター購読者の永続化インターフェース。
type SubscriberRepository interface {
	// Create は購読者を作成する。emailが既存の場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, subscriber *model.EmailSubscriber) error

	// ListAll は全購読者を登録日時の降順で返す。
	ListAll(ctx context.Context) ([]*model.EmailSubscriber, error)
}

// ContactRepository は問い合わせ送信の永続化インターフェース。
type ContactRepository interface {
	// Create は問い合わせを作成する。重複チェックは行わない（追記のみ）。
	Create(ctx context.Context, submission *model.ContactSubmission) error

	// ListAll は全問い合わせを送信日時の降順で返す。
	ListAll(ctx context.Context) ([]*model.ContactSubmission, error)
}

// SettingRepository はシングルトン設定レコードの永続化インターフェース。
type SettingRepository interface {
	// GetFeaturedVideo はおすすめ動画設定を取得する。未設定の場合はnilを返す。
	GetFeaturedVideo(ctx context.Context) (*model.FeaturedVideo, error)

	// UpsertFeaturedVideo はおすすめ動画設定を固定キーに対してUPSERTする。
	UpsertFeaturedVideo(ctx context.Context, video *model.FeaturedVideo) error
}

// NewsletterLogRepository はニュースレター送信監査行の永続化インターフェース。
type NewsletterLogRepository interface {
	// Create は送信成功後の監査行を追記する。
	Create(ctx context.Context, log *model.NewsletterLog) error
}
