package models

import "time"

// TrackingEntry is a single dated intensity record against a trait.
// dia_de_registro is a calendar date, not a timestamp; the schema permits
// several entries per trait per day.
type TrackingEntry struct {
	ID         int64     `db:"id" json:"id"`
	TraitID    int64     `db:"idtraits" json:"idtraits"`
	Intensity  int       `db:"intensidade" json:"intensidade"`
	Note       string    `db:"descricao" json:"descricao"`
	RecordDate time.Time `db:"dia_de_registro" json:"dia_de_registro"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
