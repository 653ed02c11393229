package model

type Player struct {
	ID    string
	Color Color
}

type ClientPlayer struct {
	ID    string      `json:"name"`
	Color Color       `json:"color"`
	Clock ClientClock `json:"clock"`
}

// MatchFoundEvent is sent to a queued player once a game has been made for them.
type MatchFoundEvent struct {
	GameID string `json:"gameId"`
	Color  Color  `json:"color"`
}
