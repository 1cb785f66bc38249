// Package obstacle provides the static obstacle fields the planner collides
// against and the segment collision oracle built on top of them.
//
// A Field answers for integer cells only. Queries outside the field are free
// space; implementations must never panic on them.
package obstacle

// Field is a read-only obstacle map queried at integer cells
type Field interface {
	Blocked(x, y int) bool
}

// FieldFunc adapts a function to the Field interface
type FieldFunc func(x, y int) bool

// Blocked implements Field
func (f FieldFunc) Blocked(x, y int) bool { return f(x, y) }

// Free is a field without obstacles
var Free Field = FieldFunc(func(int, int) bool { return false })

// Union is blocked wherever any of its members is blocked
type Union []Field

// Blocked implements Field
func (u Union) Blocked(x, y int) bool {
	for _, f := range u {
		if f != nil && f.Blocked(x, y) {
			return true
		}
	}
	return false
}
