package model

// Winner rows enforce global exclusivity through the (event, participant)
// unique index: one participant cannot win two prizes in the same event.
type Winner struct {
	WinnerID      uint64 `gorm:"column:winner_id;primaryKey;autoIncrement"`
	EventID       string `gorm:"column:event_id;type:text;not null;uniqueIndex:uniq_event_winner;index"`
	PrizeID       uint64 `gorm:"column:prize_id;not null;index"`
	ParticipantID uint64 `gorm:"column:participant_id;not null;uniqueIndex:uniq_event_winner"`
	CreatedAt     string `gorm:"column:created_at;type:text;not null"`
}

func (Winner) TableName() string {
	return "lottery_winners"
}
