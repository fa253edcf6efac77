package lottery

// SurveyReport carries the course-survey counters a final_teaching import
// supplies for one student.
type SurveyReport struct {
	Required  int
	Completed int
	AllDone   bool
	AllValid  bool
}

// ImportRecord is one raw enrollment record as supplied by the caller,
// before any registry enrichment.
type ImportRecord struct {
	StudentID  string
	Name       string
	Department string
	Grade      string
	Surveys    *SurveyReport
}

// Decision is the outcome of classifying one import record.
type Decision struct {
	Eligible bool
	Reasons  []string
}

// Classify applies the per-category enrollment rule to a raw record.
//
// general events accept every record; registry presence is irrelevant.
// final_teaching events require both survey conditions on the record itself
// (self-reported fields are trusted at face value for this category); every
// failing condition is reported, so a record can carry two reasons.
func Classify(record ImportRecord, category string) Decision {
	if category != CategoryFinalTeaching {
		return Decision{Eligible: true}
	}

	var reasons []string
	if record.Surveys == nil || !record.Surveys.AllDone {
		reasons = append(reasons, "required surveys not completed")
	}
	if record.Surveys == nil || !record.Surveys.AllValid {
		reasons = append(reasons, "surveys not valid")
	}

	if len(reasons) > 0 {
		return Decision{Eligible: false, Reasons: reasons}
	}
	return Decision{Eligible: true}
}
