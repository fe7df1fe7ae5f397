// Package content はサイト掲載コンテンツ（おすすめ動画、リーダーボード）を管理する。
package content

import (
	"sort"
	"sync"

	"github.com/nexusstudios/nexus-web/internal/model"
)

// LeaderboardStore はeスポーツリーダーボードのメモリ内ストア。
// データは永続化せず、プロセス再起動でデモ用の初期データに戻る。
// mutexで全操作を保護し、Snapshotは常にコピーを返す。
type LeaderboardStore struct {
	mu      sync.RWMutex
	players []model.Player
}

// NewLeaderboardStore はデモ用の初期データを投入したLeaderboardStoreを生成する。
func NewLeaderboardStore() *LeaderboardStore {
	s := &LeaderboardStore{}
	s.Replace(seedPlayers())
	return s
}

// Snapshot は現在のリーダーボードのコピーをランク昇順で返す。
// 呼び出し側がスライスを変更してもストアには影響しない。
func (s *LeaderboardStore) Snapshot() []model.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Player, len(s.players))
	copy(out, s.players)
	return out
}

// Replace はリーダーボード全体を置き換える。
// スコア降順でソートし、順位（1始まり）と勝率を再計算してから保存する。
// 入力に含まれるrank/winRateの値は信用せず常に導出し直すため、
// Snapshotの結果をそのままReplaceしても結果は変わらない（冪等）。
func (s *LeaderboardStore) Replace(players []model.Player) {
	ranked := make([]model.Player, len(players))
	copy(ranked, players)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
		ranked[i].Stats.WinRate = model.WinRate(ranked[i].Stats.Wins, ranked[i].Stats.Losses)
	}

	s.mu.Lock()
	s.players = ranked
	s.mu.Unlock()
}

// seedPlayers はデモ用の初期リーダーボードを返す。
func seedPlayers() []model.Player {
	return []model.Player{
		{
			ID: "1", Name: "ProGamer123", Score: 2500,
			Avatar: "/avatars/player1.png", Team: "Team Alpha",
			Stats: model.PlayerStats{Wins: 150, Losses: 30, AvgScore: 2345},
		},
		{
			ID: "2", Name: "NinjaWarrior", Score: 2350,
			Avatar: "/avatars/player2.png", Team: "Team Beta",
			Stats: model.PlayerStats{Wins: 130, Losses: 40, AvgScore: 2100},
		},
		{
			ID: "3", Name: "PixelQueen", Score: 2200,
			Avatar: "/avatars/player3.png", Team: "Team Gamma",
			Stats: model.PlayerStats{Wins: 120, Losses: 35, AvgScore: 1950},
		},
		{
			ID: "4", Name: "ShadowBlade", Score: 2100,
			Avatar: "/avatars/player4.png", Team: "Team Alpha",
			Stats: model.PlayerStats{Wins: 110, Losses: 45, AvgScore: 1850},
		},
		{
			ID: "5", Name: "CyberSniper", Score: 1950,
			Avatar: "/avatars/player5.png", Team: "Team Delta",
			Stats: model.PlayerStats{Wins: 95, Losses: 50, AvgScore: 1750},
		},
	}
}
