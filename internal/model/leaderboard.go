package model

import "math"

// PlayerStats はプレイヤーの戦績を表す。
// WinRateは派生値であり、winsまたはlossesが変わるたびに再計算される。
type PlayerStats struct {
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	WinRate  float64 `json:"winRate"`
	AvgScore int     `json:"avgScore"`
}

// Player はesportsリーダーボードの1エントリを表す。
// Rankは派生値で、スコア降順ソート後のindex+1として全置換のたびに再計算される。
// コレクションはプロセスメモリ上にのみ保持され、再起動で初期値に戻る。
type Player struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Rank   int         `json:"rank"`
	Score  int         `json:"score"`
	Avatar string      `json:"avatar"`
	Team   string      `json:"team"`
	Stats  PlayerStats `json:"stats"`
}

// WinRate は勝率を小数第1位で丸めて返す。
// 試合数が0の場合は0を返す。
func WinRate(wins, losses int) float64 {
	total := wins + losses
	if total == 0 {
		return 0
	}
	return math.Round(100*float64(wins)/float64(total)*10) / 10
}
