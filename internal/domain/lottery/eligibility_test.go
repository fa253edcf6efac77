package lottery

import (
	"reflect"
	"testing"
)

func TestClassifyGeneralAcceptsEverything(t *testing.T) {
	decision := Classify(ImportRecord{StudentID: "s1", Name: "Alice"}, CategoryGeneral)
	if !decision.Eligible {
		t.Fatalf("Classify() eligible = false, want true")
	}
	if len(decision.Reasons) != 0 {
		t.Fatalf("Classify() reasons = %v, want none", decision.Reasons)
	}

	// Survey counters are irrelevant outside final_teaching.
	decision = Classify(ImportRecord{
		StudentID: "s2",
		Name:      "Bob",
		Surveys:   &SurveyReport{AllDone: false, AllValid: false},
	}, CategoryGeneral)
	if !decision.Eligible {
		t.Fatalf("Classify() eligible = false for general with failing surveys")
	}
}

func TestClassifyFinalTeachingSurveyGrid(t *testing.T) {
	cases := []struct {
		name     string
		done     bool
		valid    bool
		eligible bool
		reasons  []string
	}{
		{name: "done and valid", done: true, valid: true, eligible: true},
		{name: "not done", done: false, valid: true, reasons: []string{"required surveys not completed"}},
		{name: "not valid", done: true, valid: false, reasons: []string{"surveys not valid"}},
		{name: "neither", done: false, valid: false, reasons: []string{"required surveys not completed", "surveys not valid"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision := Classify(ImportRecord{
				StudentID: "s1",
				Name:      "Alice",
				Surveys:   &SurveyReport{Required: 5, Completed: 5, AllDone: tc.done, AllValid: tc.valid},
			}, CategoryFinalTeaching)
			if decision.Eligible != tc.eligible {
				t.Fatalf("Classify() eligible = %v, want %v", decision.Eligible, tc.eligible)
			}
			if !reflect.DeepEqual(decision.Reasons, tc.reasons) {
				t.Fatalf("Classify() reasons = %v, want %v", decision.Reasons, tc.reasons)
			}
		})
	}
}

func TestClassifyFinalTeachingWithoutSurveyData(t *testing.T) {
	decision := Classify(ImportRecord{StudentID: "s1", Name: "Alice"}, CategoryFinalTeaching)
	if decision.Eligible {
		t.Fatalf("Classify() eligible = true without survey data")
	}
	if len(decision.Reasons) != 2 {
		t.Fatalf("Classify() reasons = %v, want both conditions reported", decision.Reasons)
	}
}

func TestNormalizeCategory(t *testing.T) {
	if got, err := NormalizeCategory(""); err != nil || got != CategoryGeneral {
		t.Fatalf("NormalizeCategory(\"\") = %q, %v", got, err)
	}
	if got, err := NormalizeCategory("final_teaching"); err != nil || got != CategoryFinalTeaching {
		t.Fatalf("NormalizeCategory(final_teaching) = %q, %v", got, err)
	}
	if _, err := NormalizeCategory("raffle"); err == nil {
		t.Fatalf("NormalizeCategory(raffle) error = nil, want %v", ErrInvalidCategory)
	}
}
