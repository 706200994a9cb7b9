package schedule

// Filter is a presentation-side projection over built records. Applying it
// never touches generation or validation.
type Filter struct {
	Group        string // empty = all groups
	OvertimeOnly bool   // keep only records with a positive deviation
}

// Apply returns the matching records in their original order.
func (f Filter) Apply(records []EmployeeRecord) []EmployeeRecord {
	out := make([]EmployeeRecord, 0, len(records))
	for _, rec := range records {
		if f.Group != "" && rec.Group != f.Group {
			continue
		}
		if f.OvertimeOnly && !rec.IsOvertime() {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Groups returns the distinct group labels of records in first-seen order.
func Groups(records []EmployeeRecord) []string {
	labels := make([]string, len(records))
	for i, rec := range records {
		labels[i] = rec.Group
	}
	return DistinctGroups(labels)
}

// EmployeeGroups returns the distinct group labels of configured employees
// in declaration order.
func EmployeeGroups(employees []Employee) []string {
	labels := make([]string, len(employees))
	for i, emp := range employees {
		labels[i] = emp.Group
	}
	return DistinctGroups(labels)
}

// DistinctGroups drops repeated labels, keeping the first occurrence.
func DistinctGroups(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	var groups []string
	for _, label := range labels {
		if !seen[label] {
			seen[label] = true
			groups = append(groups, label)
		}
	}
	return groups
}
