package models

import (
	"fmt"
	"strings"

	dErrors "patientbot/pkg/domain-errors"
)

// DateOfBirth holds range-validated birth date components.
// No calendar check is made: 31 February is a valid DateOfBirth.
type DateOfBirth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// PaddedMonth renders the month as two digits.
func (d DateOfBirth) PaddedMonth() string {
	return fmt.Sprintf("%02d", d.Month)
}

// RecordKey renders the date the way candidate records store it for exact
// comparison. Only the month is zero-padded.
func (d DateOfBirth) RecordKey() string {
	return fmt.Sprintf("%d-%s-%d", d.Year, d.PaddedMonth(), d.Day)
}

// Display renders the date for the confirmation summary (day/month/year).
func (d DateOfBirth) Display() string {
	return fmt.Sprintf("%d/%s/%d", d.Day, d.PaddedMonth(), d.Year)
}

// Profile is the set of patient-identifying attributes collected from the user.
//
// Invariants:
//   - Name and Postcode are non-empty
//   - Month is in [1,12] and Day in [1,31]
//   - RecordID is set only once the profile matched exactly one record;
//     a profile with a RecordID is resolved and never mutated again
type Profile struct {
	Name        string      `json:"name"`
	DateOfBirth DateOfBirth `json:"date_of_birth"`
	Postcode    string      `json:"postcode"`
	RecordID    string      `json:"record_id,omitempty"`
}

// NewProfile validates the collected attributes and builds an unresolved profile.
func NewProfile(name string, dob DateOfBirth, postcode string) (*Profile, error) {
	if strings.TrimSpace(name) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "name is required")
	}
	if strings.TrimSpace(postcode) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "postcode is required")
	}
	if dob.Month < 1 || dob.Month > 12 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "birth month must be between 1 and 12")
	}
	if dob.Day < 1 || dob.Day > 31 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "birth day must be between 1 and 31")
	}
	return &Profile{Name: name, DateOfBirth: dob, Postcode: postcode}, nil
}

// IsResolved reports whether the profile was matched to a backend record.
func (p *Profile) IsResolved() bool {
	return p != nil && p.RecordID != ""
}

// Resolve returns a copy of the profile bound to the matched record's identity.
// The collected attributes are kept: matching guarantees they agree with the record.
func (p *Profile) Resolve(record CandidateRecord) *Profile {
	resolved := *p
	resolved.RecordID = record.ID
	return &resolved
}

// Summary renders the confirmation text shown before searching.
func (p *Profile) Summary() string {
	return fmt.Sprintf("I have your patient name as %s born on %s and postcode as %s.",
		p.Name, p.DateOfBirth.Display(), p.Postcode)
}
