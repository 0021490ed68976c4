package models

import (
	"time"
)

// Draw represents one historical pick-game result (Cash3/Cash4).
// Loaded once per run and never mutated.
type Draw struct {
	ID        string      `json:"id" db:"id"`
	Game      Game        `json:"game" db:"game"`
	Date      time.Time   `json:"date" db:"draw_date"`
	Session   DrawSession `json:"session" db:"session"`
	Digits    string      `json:"digits" db:"digits"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// JackpotDraw represents one historical jackpot result (Powerball,
// MegaMillions, Cash4Life): a set of main balls plus a bonus ball.
type JackpotDraw struct {
	ID        string    `json:"id" db:"id"`
	Game      Game      `json:"game" db:"game"`
	Date      time.Time `json:"date" db:"draw_date"`
	MainBalls []int     `json:"main_balls" db:"main_balls"`
	BonusBall int       `json:"bonus_ball" db:"bonus_ball"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DrawRequest represents a draw ingestion request body.
type DrawRequest struct {
	Game    string `json:"game" binding:"required"`
	Date    string `json:"date" binding:"required"`
	Session string `json:"session"`
	Digits  string `json:"digits"`
	Main    []int  `json:"main_balls"`
	Bonus   int    `json:"bonus_ball"`
}
