package model

type LeaderboardEntry struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Rank     int    `json:"rank"`
	Points   int    `json:"points"` // somme des points dans la fenêtre
}

type UserRank struct {
	UserID     string  `json:"userId"`
	Rank       int     `json:"rank"`
	Points     int     `json:"points"`
	TotalUsers int     `json:"totalUsers"`
	Percentile float64 `json:"percentile"` // Top X%
}
