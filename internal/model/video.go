package model

// FeaturedVideoKey はおすすめ動画シングルトンレコードの固定キー。
const FeaturedVideoKey = "featured_video"

// FeaturedVideo はトップページとesportsページが表示するおすすめ動画設定を表す。
// settingsテーブル上で固定キーに対する単一レコードとして保持される。
type FeaturedVideo struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	IsLive bool   `json:"isLive"`
}

// DefaultFeaturedVideo は設定レコードが存在しない場合に返す既定値。
// 「動画が未設定」は正常な初期状態であり、エラーにはしない。
func DefaultFeaturedVideo() *FeaturedVideo {
	return &FeaturedVideo{
		URL:    "https://www.youtube.com/watch?v=bJ5ClftUcBI",
		Title:  "Live Tournament Stream",
		IsLive: true,
	}
}
