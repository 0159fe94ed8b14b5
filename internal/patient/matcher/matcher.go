// Package matcher filters candidate records down to those that agree with a
// collected profile on every attribute. Comparison is exact: no case folding,
// whitespace normalization, or date parsing.
package matcher

import "patientbot/internal/patient/models"

// Match returns the records matching profile on name, birth date and postcode,
// in input order. It never returns nil.
func Match(profile *models.Profile, records []models.CandidateRecord) []models.CandidateRecord {
	matches := make([]models.CandidateRecord, 0)
	if profile == nil {
		return matches
	}
	birthKey := profile.DateOfBirth.RecordKey()
	for _, r := range records {
		if MatchesName(r, profile.Name) && r.BirthDate == birthKey && MatchesPostcode(r, profile.Postcode) {
			matches = append(matches, r)
		}
	}
	return matches
}

// MatchesName reports whether some official name entry renders as name.
// Only the first given name is used.
func MatchesName(r models.CandidateRecord, name string) bool {
	for _, n := range r.Name {
		if n.Use != models.NameUseOfficial {
			continue
		}
		if full, ok := n.FullName(); ok && full == name {
			return true
		}
	}
	return false
}

// MatchesPostcode reports whether some address carries postcode.
func MatchesPostcode(r models.CandidateRecord, postcode string) bool {
	for _, a := range r.Address {
		if a.PostalCode == postcode {
			return true
		}
	}
	return false
}
