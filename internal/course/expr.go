package course

// ExprType tags a node of a requisite expression.
type ExprType string

// Expression node types. A node with an empty type is a course leaf.
const (
	ExprLeaf ExprType = ""
	ExprAnd  ExprType = "and"
	ExprOr   ExprType = "or"
)

// Expr is a boolean requisite expression: an AND or OR over nested
// expressions, or a course reference leaf.
type Expr struct {
	Type    ExprType `toml:"type,omitempty" json:"type,omitempty"`
	Subject string   `toml:"subject,omitempty" json:"subject,omitempty"`
	ClassID int      `toml:"class_id,omitempty" json:"classId,omitempty"`
	Values  []Expr   `toml:"values,omitempty" json:"values,omitempty"`
}

// Leaf returns an expression naming a single course.
func Leaf(subject string, classID int) Expr {
	return Expr{Subject: subject, ClassID: classID}
}

// And returns an expression satisfied when every value is satisfied.
func And(values ...Expr) Expr {
	return Expr{Type: ExprAnd, Values: values}
}

// Or returns an expression satisfied when any value is satisfied.
func Or(values ...Expr) Expr {
	return Expr{Type: ExprOr, Values: values}
}

// IsLeaf reports whether e is a course reference.
func (e Expr) IsLeaf() bool {
	return e.Type == ExprLeaf
}

// Ref returns the course reference of a leaf.
func (e Expr) Ref() Ref {
	return Ref{Subject: e.Subject, ClassID: e.ClassID}
}

// Leaves returns every course reference in e, depth first.
func (e Expr) Leaves() []Ref {
	if e.IsLeaf() {
		return []Ref{e.Ref()}
	}
	var refs []Ref
	for _, v := range e.Values {
		refs = append(refs, v.Leaves()...)
	}
	return refs
}

// Clone returns a deep copy of e.
func (e Expr) Clone() Expr {
	if e.Values == nil {
		return e
	}
	values := make([]Expr, len(e.Values))
	for i, v := range e.Values {
		values[i] = v.Clone()
	}
	e.Values = values
	return e
}
