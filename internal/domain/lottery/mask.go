package lottery

import "strings"

// MaskEnrichment returns a copy with the privacy-sensitive contact fields
// partially redacted, for general-display listings. The unmasked record is
// reserved for the authorized export path.
func MaskEnrichment(e Enrichment) Enrichment {
	e.Email = MaskEmail(e.Email)
	e.NationalID = MaskNationalID(e.NationalID)
	return e
}

// MaskEmail keeps the first two characters of the local part and the full
// domain: "student@u.edu" -> "st*****@u.edu".
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return email
	}

	local := email[:at]
	if len(local) <= 2 {
		return strings.Repeat("*", len(local)) + email[at:]
	}
	return local[:2] + strings.Repeat("*", len(local)-2) + email[at:]
}

// MaskNationalID keeps the leading and trailing two characters:
// "A123456789" -> "A1******89". Short values are fully starred.
func MaskNationalID(id string) string {
	if id == "" {
		return ""
	}
	if len(id) <= 4 {
		return strings.Repeat("*", len(id))
	}
	return id[:2] + strings.Repeat("*", len(id)-4) + id[len(id)-2:]
}
