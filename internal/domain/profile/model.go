package profile

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength    = 100
	MaxAddressLength = 500
)

// Membership level constants. The level selects the card background template.
const (
	LevelParish  = "parish"
	LevelDeanery = "deanery"
	LevelDexco   = "dexco"
)

// Levels contains all valid membership level values.
var Levels = []string{LevelParish, LevelDeanery, LevelDexco}

// Designations is the fixed list of organizational roles printed on a card.
var Designations = []string{
	"Member",
	"President",
	"Vice-President",
	"Secretary",
	"Joint Secretary",
	"Treasurer",
	"Joint Treasurer",
	"Media Secretary",
	"Joint Media Secretary",
	"Boy Representative",
	"Girl Representative",
	"Boy Spokesperson",
	"Girl Spokesperson",
}

// Domain errors
var (
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrInvalidPhone       = errors.New("phone must be exactly 10 digits")
	ErrInvalidLevel       = errors.New("level must be one of: parish, deanery, dexco")
	ErrInvalidDesignation = errors.New("designation is not a recognized role")
	ErrUnknownDeanery     = errors.New("deanery is not in the directory")
	ErrParishNotInDeanery = errors.New("parish does not belong to the selected deanery")
	ErrMissingPhoto       = errors.New("a photo is required before a card can be generated")
	ErrMissingIssueDate   = errors.New("an issue date is required before a card can be generated")
)

// Record holds the member data rendered onto an ID card.
// The renderer treats a Record as read-only input; only the form flow
// constructs or mutates one.
type Record struct {
	ID               string
	Name             string
	FatherName       string
	MotherName       string
	DateOfBirth      time.Time
	DateOfBaptism    time.Time
	IssueDate        time.Time
	PostalAddress    string
	Parish           string
	Deanery          string
	Qualification    string
	Phone            string
	InvolvementSince string
	Level            string
	Designation      string
	Photo            string // encoded image (data URI); decoding is the renderer's job
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate checks if the Record has valid data.
// PRE: Record struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Phone is 10 ASCII digits; Deanery/Parish pair exists in the directory
func (p *Record) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if len(p.Name) > MaxNameLength {
		return errors.New("name cannot exceed 100 characters")
	}
	if strings.TrimSpace(p.FatherName) == "" {
		return errors.New("father's name cannot be empty")
	}
	if strings.TrimSpace(p.MotherName) == "" {
		return errors.New("mother's name cannot be empty")
	}
	if p.DateOfBirth.IsZero() {
		return errors.New("date of birth is required")
	}
	if p.DateOfBaptism.IsZero() {
		return errors.New("date of baptism is required")
	}
	if strings.TrimSpace(p.PostalAddress) == "" {
		return errors.New("postal address cannot be empty")
	}
	if len(p.PostalAddress) > MaxAddressLength {
		return errors.New("postal address cannot exceed 500 characters")
	}
	if strings.TrimSpace(p.Qualification) == "" {
		return errors.New("educational qualification cannot be empty")
	}
	if strings.TrimSpace(p.InvolvementSince) == "" {
		return errors.New("involvement since cannot be empty")
	}
	if !isValidPhone(p.Phone) {
		return ErrInvalidPhone
	}
	if !isValidLevel(p.Level) {
		return ErrInvalidLevel
	}
	if !isValidDesignation(p.Designation) {
		return ErrInvalidDesignation
	}
	parishes, ok := Directory[p.Deanery]
	if !ok {
		return ErrUnknownDeanery
	}
	if !contains(parishes, p.Parish) {
		return ErrParishNotInDeanery
	}
	return nil
}

// CanGenerateCard reports whether the record carries everything a card
// export needs. This is the form-side pre-check: the composer itself stays
// tolerant of a missing photo.
// INVARIANT: Record fields are not mutated
func (p *Record) CanGenerateCard() error {
	if p.Photo == "" {
		return ErrMissingPhoto
	}
	if p.IssueDate.IsZero() {
		return ErrMissingIssueDate
	}
	return nil
}

func isValidPhone(phone string) bool {
	if len(phone) != 10 {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isValidLevel(level string) bool {
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}

func isValidDesignation(designation string) bool {
	for _, d := range Designations {
		if d == designation {
			return true
		}
	}
	return false
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
