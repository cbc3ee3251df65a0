package linkgraph

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// Filter is a compiled edge predicate. Filters are expressed in CEL
// (Common Expression Language) and evaluated against each candidate edge
// before results are truncated to a query's limit.
//
// The expression has access to the following variables:
//
//	type       string          edge type name
//	source     string          source node id
//	target     string          target node id
//	weight     double          edge weight
//	created_by string          creator identity
//	properties map[string]dyn  edge properties
//
// Example expressions:
//
//	`weight >= 0.8`
//	`type == "depends_on" && properties["strength"] == "strong"`
//	`"critical" in properties`
//
// An edge that causes an evaluation error (e.g., a missing property key the
// expression dereferences) is excluded from the results; filters never abort
// a read.
type Filter struct {
	expr    string
	program cel.Program
}

// CompileFilter compiles a CEL expression into a reusable edge Filter.
// Returns an error wrapping ErrInvalidFilter if the expression does not
// compile or does not evaluate to a boolean.
func CompileFilter(expr string) (*Filter, error) {
	env, err := cel.NewEnv(
		cel.Variable("type", cel.StringType),
		cel.Variable("source", cel.StringType),
		cel.Variable("target", cel.StringType),
		cel.Variable("weight", cel.DoubleType),
		cel.Variable("created_by", cel.StringType),
		cel.Variable("properties", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, NewInternalError("CompileFilter", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, issues.Err())
	}

	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("%w: expression must evaluate to bool, got %s",
			ErrInvalidFilter, ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	return &Filter{expr: expr, program: program}, nil
}

// Expression returns the original CEL source of the filter.
func (f *Filter) Expression() string {
	return f.expr
}

// Matches evaluates the filter against an edge. Evaluation errors are
// reported as a non-match so a single malformed edge cannot abort a read.
func (f *Filter) Matches(edge *Edge) bool {
	if f == nil || f.program == nil {
		return true
	}

	props := edge.Properties
	if props == nil {
		props = map[string]any{}
	}

	out, _, err := f.program.Eval(map[string]any{
		"type":       edge.Type,
		"source":     edge.SourceID,
		"target":     edge.TargetID,
		"weight":     edge.Weight,
		"created_by": edge.CreatedBy,
		"properties": props,
	})
	if err != nil {
		return false
	}

	matched, ok := out.Value().(bool)
	return ok && matched
}
