package model

type Event struct {
	EventID     string  `gorm:"column:event_id;primaryKey;type:text"`
	Term        string  `gorm:"column:term;type:text;not null"`
	Name        string  `gorm:"column:name;type:text;not null"`
	Description string  `gorm:"column:description;type:text;not null"`
	EventDate   string  `gorm:"column:event_date;type:text;not null"`
	Category    string  `gorm:"column:category;type:text;not null"`
	Status      string  `gorm:"column:status;type:text;not null"`
	IsDeleted   bool    `gorm:"column:is_deleted;not null;default:0"`
	DeletedAt   *string `gorm:"column:deleted_at;type:text"`
	DrawSeed    *int64  `gorm:"column:draw_seed"`
	CreatedAt   string  `gorm:"column:created_at;type:text;not null"`
	UpdatedAt   string  `gorm:"column:updated_at;type:text;not null"`
}

func (Event) TableName() string {
	return "lottery_events"
}
