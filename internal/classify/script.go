package classify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/risor-io/risor/object"

	"github.com/unibodydesignn/changedistiller/internal/runtime"
	"github.com/unibodydesignn/changedistiller/internal/syntax"
	"github.com/unibodydesignn/changedistiller/internal/tree"
)

// ScriptOracle refines a base oracle with a Risor script. The script sees
// the globals `kind` (construct kind name), `text` (construct source) and
// `label` (the base label). If it evaluates to a non-empty string, that
// string becomes the label; any other result keeps the base label.
//
// Scripts are evaluated once per distinct (kind, text) pair. A failing
// script keeps the base label and the first error is reported by Err.
type ScriptOracle struct {
	rt     *runtime.Runtime
	source string
	base   Oracle

	mu    sync.Mutex
	cache map[scriptKey]tree.Label
	err   error
}

type scriptKey struct {
	kind syntax.Kind
	text string
}

// ScriptOption configures a ScriptOracle.
type ScriptOption func(*ScriptOracle)

// WithRuntime sets the Risor runtime used to evaluate the script, e.g. one
// that resolves imports from a scripts directory.
func WithRuntime(rt *runtime.Runtime) ScriptOption {
	return func(o *ScriptOracle) {
		o.rt = rt
	}
}

// NewScriptOracle returns an oracle that runs source on top of base. A nil
// base uses the default table.
func NewScriptOracle(source string, base Oracle, opts ...ScriptOption) *ScriptOracle {
	if base == nil {
		base = Default()
	}
	o := &ScriptOracle{
		rt:     runtime.NewRuntime(""),
		source: source,
		base:   base,
		cache:  make(map[scriptKey]tree.Label),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Classify implements Oracle.
func (o *ScriptOracle) Classify(c *syntax.Construct) tree.Label {
	base := o.base.Classify(c)
	if c == nil {
		return base
	}
	key := scriptKey{kind: c.Kind, text: c.Text}

	o.mu.Lock()
	if l, ok := o.cache[key]; ok {
		o.mu.Unlock()
		return l
	}
	o.mu.Unlock()

	label := base
	result, err := o.rt.Eval(context.Background(), o.source, "classify", map[string]any{
		"kind":  c.Kind.String(),
		"text":  c.Text,
		"label": string(base),
	})
	if err == nil {
		if s, ok := result.(*object.String); ok && s.Value() != "" {
			label = tree.Label(s.Value())
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		if o.err == nil {
			o.err = err
		}
		return label
	}
	o.cache[key] = label
	return label
}

// Err returns the first script evaluation error, if any.
func (o *ScriptOracle) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Fingerprint digests the script source, the modules it can import and
// the base oracle's fingerprint when it has one. A module tree that cannot
// be read contributes its error text.
func (o *ScriptOracle) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(o.source))
	modules, err := o.rt.ModuleDigest()
	if err != nil {
		modules = err.Error()
	}
	h.Write([]byte{0})
	h.Write([]byte(modules))
	if f, ok := o.base.(interface{ Fingerprint() string }); ok {
		h.Write([]byte{0})
		h.Write([]byte(f.Fingerprint()))
	}
	return hex.EncodeToString(h.Sum(nil))
}
