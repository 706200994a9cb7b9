package schedule

import "strings"

// =============================================================================
// ABSENCE CODES - Closed set of excused non-working tokens
// =============================================================================

// AbsenceCode is a recognized non-worked day. It contributes zero hours but is
// a legal cell value. Codes are stored in their normalized (lower-case) form.
type AbsenceCode string

const (
	AbsenceAnnualLeave AbsenceCode = "го"  // ежегодный оплачиваемый отпуск
	AbsenceSickLeave   AbsenceCode = "б/л" // больничный лист
	AbsenceExcused     AbsenceCode = "ув"  // отсутствие по уважительной причине
)

var absenceDescriptions = map[AbsenceCode]string{
	AbsenceAnnualLeave: "annual paid leave",
	AbsenceSickLeave:   "medical leave",
	AbsenceExcused:     "excused / unpaid leave",
}

// AbsenceCodes returns the closed set in display order.
func AbsenceCodes() []AbsenceCode {
	return []AbsenceCode{AbsenceAnnualLeave, AbsenceSickLeave, AbsenceExcused}
}

// Description returns a human label, empty for unknown codes.
func (a AbsenceCode) Description() string {
	return absenceDescriptions[a]
}

// NormalizeToken case-folds a raw token and strips surrounding whitespace,
// so "ГО", " го " and "Го" all compare equal.
func NormalizeToken(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// LookupAbsence resolves a raw token to its absence code.
func LookupAbsence(raw string) (AbsenceCode, bool) {
	code := AbsenceCode(NormalizeToken(raw))
	_, ok := absenceDescriptions[code]
	return code, ok
}

// Absence returns the cell for an absence code.
func Absence(code AbsenceCode) Cell {
	return Code(string(code))
}
