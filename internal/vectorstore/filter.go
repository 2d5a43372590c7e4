package vectorstore

import "fmt"

// FilterOp is the comparison or boolean connective a Filter node applies.
type FilterOp int

const (
	// OpEq compares a field for equality against Value.
	OpEq FilterOp = iota
	// OpIn tests whether a field's value is a member of Values.
	OpIn
	// OpAnd requires every child filter to match.
	OpAnd
	// OpOr requires at least one child filter to match.
	OpOr
)

// Filter is a scalar predicate over a collection's persisted fields.
// Leaf nodes (Eq/In) name a Field; connective nodes (And/Or) hold Children.
type Filter struct {
	Op       FilterOp
	Field    string
	Value    any
	Values   []any
	Children []*Filter
}

// Eq builds an equality filter.
func Eq(field string, value any) *Filter {
	return &Filter{Op: OpEq, Field: field, Value: value}
}

// In builds a membership filter.
func In(field string, values []any) *Filter {
	return &Filter{Op: OpIn, Field: field, Values: values}
}

// And combines filters conjunctively.
func And(filters ...*Filter) *Filter {
	return &Filter{Op: OpAnd, Children: filters}
}

// Or combines filters disjunctively.
func Or(filters ...*Filter) *Filter {
	return &Filter{Op: OpOr, Children: filters}
}

// allowedFields is the set of persisted Document fields a Filter may
// reference; metadata fields are addressed as "metadata.<key>".
var allowedFields = map[string]bool{
	"id":            true,
	"relativePath":  true,
	"startLine":     true,
	"endLine":       true,
	"fileExtension": true,
	"mtime":         true,
}

func isAllowedField(field string) bool {
	if allowedFields[field] {
		return true
	}
	return len(field) > 9 && field[:9] == "metadata."
}

// Validate walks the filter tree and reports InvalidFilter for any
// unknown field reference.
func (f *Filter) Validate() error {
	if f == nil {
		return nil
	}
	switch f.Op {
	case OpEq, OpIn:
		if !isAllowedField(f.Field) {
			return newErr(KindInvalidFilter, "validate", fmt.Errorf("unknown field %q", f.Field))
		}
	case OpAnd, OpOr:
		for _, child := range f.Children {
			if err := child.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Match evaluates the filter against a document's field map, built by
// fieldMap(doc). Both backends over-fetch candidates from their ANN index
// and call Match in Go rather than pushing the filter into SQL, since
// vec0 has no way to evaluate an arbitrary predicate tree.
func (f *Filter) Match(fields map[string]any) bool {
	if f == nil {
		return true
	}
	switch f.Op {
	case OpEq:
		v, ok := fields[f.Field]
		return ok && equalScalar(v, f.Value)
	case OpIn:
		v, ok := fields[f.Field]
		if !ok {
			return false
		}
		for _, want := range f.Values {
			if equalScalar(v, want) {
				return true
			}
		}
		return false
	case OpAnd:
		for _, child := range f.Children {
			if !child.Match(fields) {
				return false
			}
		}
		return true
	case OpOr:
		for _, child := range f.Children {
			if child.Match(fields) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func equalScalar(a, b any) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// fieldMap flattens a Document's scalar fields plus its metadata (under
// "metadata.<key>") into the shape Filter.Match expects.
func fieldMap(doc Document) map[string]any {
	m := map[string]any{
		"id":            doc.ID,
		"relativePath":  doc.RelativePath,
		"startLine":     doc.StartLine,
		"endLine":       doc.EndLine,
		"fileExtension": doc.FileExtension,
		"mtime":         doc.Mtime,
	}
	for k, v := range doc.Metadata {
		m["metadata."+k] = v
	}
	return m
}
