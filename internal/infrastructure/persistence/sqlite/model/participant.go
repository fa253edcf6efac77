package model

// Participant rows are unique per (event, student): re-importing a student
// id merges into the existing row instead of inserting a duplicate.
type Participant struct {
	ParticipantID uint64 `gorm:"column:participant_id;primaryKey;autoIncrement"`
	EventID       string `gorm:"column:event_id;type:text;not null;uniqueIndex:uniq_event_student;index"`
	StudentID     string `gorm:"column:student_id;type:text;not null;uniqueIndex:uniq_event_student"`
	Name          string `gorm:"column:name;type:text;not null"`
	Department    string `gorm:"column:department;type:text;not null"`
	Grade         string `gorm:"column:grade;type:text;not null"`

	RequiredSurveys  *int  `gorm:"column:required_surveys"`
	CompletedSurveys *int  `gorm:"column:completed_surveys"`
	SurveysCompleted *bool `gorm:"column:surveys_completed"`
	ValidSurveys     *bool `gorm:"column:valid_surveys"`

	Enrichment string `gorm:"column:enrichment;type:text;not null"`

	CreatedAt string `gorm:"column:created_at;type:text;not null"`
	UpdatedAt string `gorm:"column:updated_at;type:text;not null"`
}

func (Participant) TableName() string {
	return "lottery_participants"
}
