package domain

import "fmt"

// Violation is one structured finding produced by a validation check.
// Violations are results, not errors: the presence of any violation turns the
// run into a failure but never aborts the process by itself.
type Violation struct {
	Check   string
	List    ListKind
	Line    int // 0 when no line number applies
	Text    string
	Message string
}

// String renders the violation as a single diagnostic line.
func (v Violation) String() string {
	if v.Line > 0 {
		return fmt.Sprintf("%s list, line %d: %q: %s", v.List, v.Line, v.Text, v.Message)
	}
	return fmt.Sprintf("%s list: %q: %s", v.List, v.Text, v.Message)
}
