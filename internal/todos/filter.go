package todos

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/stolasapp/todo/internal/storage/db"
)

const thisVar = "this"

func newFilterEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable(thisVar, cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create todo filter CEL environment: %w", err)
	}
	return env, nil
}

func compileFilter(env *cel.Env, filter string) (cel.Program, error) {
	ast, issues := env.Compile(filter)
	if err := issues.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile filter: %w", err)
	}

	// Fields of this are dynamic, so a bare field access is only checked when
	// it is evaluated.
	outType := ast.OutputType()
	if !outType.IsExactType(cel.BoolType) && !outType.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("filter expression must return bool but got %s", outType.String())
	}

	return env.Program(ast)
}

func filterMatches(ctx context.Context, prog cel.Program, todo db.Todo) (bool, error) {
	val, _, err := prog.ContextEval(ctx, map[string]any{
		thisVar: map[string]any{
			"title":       todo.Title,
			"description": todo.Description,
			"priority":    todo.Priority,
			"complete":    todo.Complete,
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate filter: %w", err)
	}
	match, ok := val.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter expression must return bool but got %v", val.Type())
	}
	return match, nil
}
