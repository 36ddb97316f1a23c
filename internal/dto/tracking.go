package dto

import "github.com/fefaortiz/tear-api/internal/models"

// DailyTrackingRow is one line of the daily-tracking view: a trait owned by
// the patient plus today's state. Nota is nil when no entry exists for
// today; zero is a valid intensity-looking value and is never emitted for
// "no data".
type DailyTrackingRow struct {
	TraitID      int64       `json:"idtraits"`
	Name         string      `json:"nome"`
	Score        *int        `json:"nota"`
	UpdatedToday bool        `json:"atualizadoHoje"`
	Creator      string      `json:"criador"`
	CreatorRole  models.Role `json:"criadorRole"`
}

// WeeklyHistoryPoint is one recorded day inside the trailing-7-day series.
// Gap days carry no point so charts render a break instead of a zero.
type WeeklyHistoryPoint struct {
	Date  string `json:"dia"`
	Score int    `json:"nota"`
}

// WeeklyHistoryResponse wraps the series for one trait.
type WeeklyHistoryResponse struct {
	TraitID int64                `json:"idtraits"`
	From    string               `json:"inicio"`
	To      string               `json:"fim"`
	Points  []WeeklyHistoryPoint `json:"pontos"`
}
