package runtime

import (
	"context"
	"log/slog"

	"github.com/risor-io/risor/object"
)

// makeFilesFn creates the "files" host function.
//
// files() → list of every indexed path, declaring files first
func makeFilesFn(src Source) *object.Builtin {
	return object.NewBuiltin("files", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("files", 0, len(args))
		}
		return stringList(src.Files())
	})
}

// declares(path) → list of names path declares
func makeDeclaresFn(src Source) *object.Builtin {
	return object.NewBuiltin("declares", func(ctx context.Context, args ...object.Object) object.Object {
		path, errObj := stringArg("declares", args)
		if errObj != nil {
			return errObj
		}
		return stringList(src.Declares(path))
	})
}

// requires(path) → list of names path requires
func makeRequiresFn(src Source) *object.Builtin {
	return object.NewBuiltin("requires", func(ctx context.Context, args ...object.Object) object.Object {
		path, errObj := stringArg("requires", args)
		if errObj != nil {
			return errObj
		}
		return stringList(src.RequiredBy(path))
	})
}

// definer(name) → defining path, or nil
func makeDefinerFn(src Source) *object.Builtin {
	return object.NewBuiltin("definer", func(ctx context.Context, args ...object.Object) object.Object {
		name, errObj := stringArg("definer", args)
		if errObj != nil {
			return errObj
		}
		path, ok := src.Definer(name)
		if !ok {
			return object.Nil
		}
		return object.NewString(path)
	})
}

// all_requires() → distinct required names across every file
func makeAllRequiresFn(src Source) *object.Builtin {
	return object.NewBuiltin("all_requires", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("all_requires", 0, len(args))
		}
		return stringList(src.AllRequires())
	})
}

// closure(names) → library files defining names and their dependencies
func makeClosureFn(fn ClosureFunc) *object.Builtin {
	return object.NewBuiltin("closure", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("closure", 1, len(args))
		}
		list, ok := args[0].(*object.List)
		if !ok {
			return object.Errorf("closure: names must be a list, got %s", args[0].Type())
		}
		names := make([]string, 0, len(list.Value()))
		for _, item := range list.Value() {
			s, ok := item.(*object.String)
			if !ok {
				return object.Errorf("closure: names must be strings, got %s", item.Type())
			}
			names = append(names, s.Value())
		}
		files, err := fn(ctx, names)
		if err != nil {
			return object.Errorf("closure: %v", err)
		}
		return stringList(files)
	})
}

// manifest() → rendered manifest text
func makeManifestFn(fn ManifestFunc) *object.Builtin {
	return object.NewBuiltin("manifest", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("manifest", 0, len(args))
		}
		text, err := fn()
		if err != nil {
			return object.Errorf("manifest: %v", err)
		}
		return object.NewString(text)
	})
}

func stringArg(fn string, args []object.Object) (string, object.Object) {
	if len(args) != 1 {
		return "", object.NewArgsError(fn, 1, len(args))
	}
	s, ok := args[0].(*object.String)
	if !ok {
		return "", object.Errorf("%s: argument must be a string, got %s", fn, args[0].Type())
	}
	return s.Value(), nil
}

func stringList(values []string) *object.List {
	items := make([]object.Object, len(values))
	for i, v := range values {
		items[i] = object.NewString(v)
	}
	return object.NewList(items)
}

// logObject provides log.Info/Warn/Error methods for Risor scripts.
type logObject struct {
	logger *slog.Logger
}

func (l *logObject) Info(msg string) {
	l.logger.Info(msg, "source", "script")
}

func (l *logObject) Warn(msg string) {
	l.logger.Warn(msg, "source", "script")
}

func (l *logObject) Error(msg string) {
	l.logger.Error(msg, "source", "script")
}
