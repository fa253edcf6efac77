package lottery

import "testing"

func TestMaskEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"student@u.edu", "st*****@u.edu"},
		{"ab@u.edu", "**@u.edu"},
		{"a@u.edu", "*@u.edu"},
		{"", ""},
		{"not-an-email", "not-an-email"},
		{"@u.edu", "@u.edu"},
	}
	for _, tc := range cases {
		if got := MaskEmail(tc.in); got != tc.want {
			t.Fatalf("MaskEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMaskNationalID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"A123456789", "A1******89"},
		{"123456", "12**56"},
		{"1234", "****"},
		{"12", "**"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := MaskNationalID(tc.in); got != tc.want {
			t.Fatalf("MaskNationalID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMaskEnrichmentLeavesIdentityFields(t *testing.T) {
	masked := MaskEnrichment(Enrichment{
		Name:       "Alice",
		Department: "CS",
		Grade:      "3",
		Email:      "alice@u.edu",
		NationalID: "A123456789",
	})
	if masked.Name != "Alice" || masked.Department != "CS" || masked.Grade != "3" {
		t.Fatalf("MaskEnrichment() touched identity fields: %+v", masked)
	}
	if masked.Email != "al***@u.edu" {
		t.Fatalf("MaskEnrichment() email = %q", masked.Email)
	}
	if masked.NationalID != "A1******89" {
		t.Fatalf("MaskEnrichment() national id = %q", masked.NationalID)
	}
}
