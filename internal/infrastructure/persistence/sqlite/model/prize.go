package model

type Prize struct {
	PrizeID   uint64 `gorm:"column:prize_id;primaryKey;autoIncrement"`
	EventID   string `gorm:"column:event_id;type:text;not null;index"`
	Name      string `gorm:"column:name;type:text;not null"`
	Quantity  int    `gorm:"column:quantity;not null"`
	Position  int    `gorm:"column:position;not null"`
	CreatedAt string `gorm:"column:created_at;type:text;not null"`
}

func (Prize) TableName() string {
	return "lottery_prizes"
}
