package airtable

import (
	"fmt"
	"strings"
)

// EqualsFold builds a case-insensitive equality predicate by upper-casing
// both sides.
func EqualsFold(field, value string) string {
	escaped := strings.ReplaceAll(strings.ToUpper(value), `"`, `\"`)
	return fmt.Sprintf(`UPPER({%s}) = "%s"`, field, escaped)
}

// IsTrue builds a checkbox predicate.
func IsTrue(field string) string {
	return fmt.Sprintf("{%s} = TRUE()", field)
}

// OnOrAfterToday builds a date predicate matching today and later dates.
func OnOrAfterToday(field string) string {
	return fmt.Sprintf("IS_AFTER({%s}, DATEADD(TODAY(), -1, 'days'))", field)
}

// And combines predicates.
func And(parts ...string) string {
	return "AND(" + strings.Join(parts, ", ") + ")"
}
