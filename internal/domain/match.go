package domain

// IsDue reports whether a reminder dated d fires on target. Day and
// month must line up; a one-time reminder additionally requires an
// exact year match, while a yearly one fires every year. Both the
// daily sweep and date-scoped listings route through this predicate.
func IsDue(d, target Date) bool {
	if d.Day != target.Day || d.Month != target.Month {
		return false
	}
	return d.Yearly || d.Year == target.Year
}
