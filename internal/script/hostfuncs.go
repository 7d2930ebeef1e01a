package script

import (
	"context"
	"fmt"

	"github.com/risor-io/risor/object"
)

// makeFunctionsFn creates the "functions" host function.
//
// functions() → []string of every known native identifier, sorted.
func makeFunctionsFn(cur Curator) *object.Builtin {
	return object.NewBuiltin("functions", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("functions", 0, len(args))
		}
		names := cur.Functions()
		items := make([]object.Object, len(names))
		for i, name := range names {
			items[i] = object.NewString(name)
		}
		return object.NewList(items)
	})
}

// makeExcludeFn creates the "exclude" host function.
//
// exclude(cname) — curates a function out of generation.
func makeExcludeFn(cur Curator) *object.Builtin {
	return object.NewBuiltin("exclude", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("exclude", 1, len(args))
		}
		cname, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("exclude: cname must be a string, got %s", args[0].Type())
		}
		if err := cur.Exclude(cname.Value()); err != nil {
			return object.Errorf("exclude: %v", err)
		}
		return object.Nil
	})
}

// makeRenameFn creates the "rename" host function.
//
// rename(cname, goname) — overrides a function's generated name.
func makeRenameFn(cur Curator) *object.Builtin {
	return object.NewBuiltin("rename", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("rename", 2, len(args))
		}
		cname, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("rename: cname must be a string, got %s", args[0].Type())
		}
		goName, ok := args[1].(*object.String)
		if !ok {
			return object.Errorf("rename: goname must be a string, got %s", args[1].Type())
		}
		if err := cur.Rename(cname.Value(), goName.Value()); err != nil {
			return object.Errorf("rename: %v", err)
		}
		return object.Nil
	})
}

func mustProxy(v any) object.Object {
	p, err := object.NewProxy(v)
	if err != nil {
		panic(fmt.Sprintf("script: proxy error: %v", err))
	}
	return p
}
