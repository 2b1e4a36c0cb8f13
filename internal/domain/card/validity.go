package card

import "time"

// ValidityYears is the fixed membership card validity period.
const ValidityYears = 2

// timeNow is a variable for testability.
var timeNow = time.Now

// ValidityWindow is the derived issue/expiry period displayed on and around
// a card. It is computed on demand, never stored.
type ValidityWindow struct {
	IssueDate       time.Time
	ExpiryDate      time.Time
	IsValid         bool
	DaysUntilExpiry int
}

// ComputeValidity derives the validity window for an issue date against the
// current time.
func ComputeValidity(issueDate time.Time) ValidityWindow {
	return ComputeValidityAt(issueDate, timeNow())
}

// ComputeValidityAt derives the validity window for an issue date against an
// explicit reference time.
// POST: zero issueDate yields a window with IsValid=false and
// DaysUntilExpiry=0 rather than an error
// INVARIANT: expiry is issue + 2 calendar years (Feb 29 normalizes per
// time.AddDate); a card expiring exactly now counts as expired
func ComputeValidityAt(issueDate, now time.Time) ValidityWindow {
	if issueDate.IsZero() {
		return ValidityWindow{}
	}
	expiry := issueDate.AddDate(ValidityYears, 0, 0)
	w := ValidityWindow{
		IssueDate:  issueDate,
		ExpiryDate: expiry,
		IsValid:    now.Before(expiry),
	}
	if days := int(expiry.Sub(now).Hours() / 24); days > 0 {
		w.DaysUntilExpiry = days
	}
	return w
}

// FormatDMY renders a date as DD-MM-YYYY, the form used on the card face.
// Zero dates render as an empty string.
func FormatDMY(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02-01-2006")
}

// FormatDMYSlash renders a date as DD/MM/YYYY, the form used on the manage
// screens. Kept separate from FormatDMY: both spellings are displayed to
// users and must not drift together.
func FormatDMYSlash(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}
