package runtime

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/risor-io/risor/object"
)

// makeWordsFn creates the "words" host function.
//
// words(text) → []string
//
// Splits text on runs of whitespace and periods, so `this.items.add(x)`
// yields ["this", "items", "add(x)"].
func makeWordsFn() *object.Builtin {
	return object.NewBuiltin("words", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("words", 1, len(args))
		}
		text, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("words: text must be a string, got %s", args[0].Type())
		}
		fields := strings.FieldsFunc(text.Value(), func(r rune) bool {
			return r == '.' || r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
		})
		items := make([]object.Object, 0, len(fields))
		for _, f := range fields {
			items = append(items, object.NewString(f))
		}
		return object.NewList(items)
	})
}

// makeFirstLineFn creates the "first_line" host function.
//
// first_line(text) → string
//
// Returns text up to its first line break, trimmed.
func makeFirstLineFn() *object.Builtin {
	return object.NewBuiltin("first_line", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("first_line", 1, len(args))
		}
		text, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("first_line: text must be a string, got %s", args[0].Type())
		}
		line, _, _ := strings.Cut(text.Value(), "\n")
		return object.NewString(strings.TrimSpace(line))
	})
}

// logObject provides log.info/warn/error methods for Risor scripts.
type logObject struct {
	prefix string
}

func (l *logObject) Info(msg string) {
	fmt.Fprintf(os.Stderr, "[%s] INFO: %s\n", l.prefix, msg)
}

func (l *logObject) Warn(msg string) {
	fmt.Fprintf(os.Stderr, "[%s] WARN: %s\n", l.prefix, msg)
}

func (l *logObject) Error(msg string) {
	fmt.Fprintf(os.Stderr, "[%s] ERROR: %s\n", l.prefix, msg)
}
