package changedistiller

import (
	"context"
	"fmt"
	goruntime "runtime"

	"golang.org/x/sync/errgroup"

	"github.com/unibodydesignn/changedistiller/internal/classify"
	"github.com/unibodydesignn/changedistiller/internal/javaparse"
	"github.com/unibodydesignn/changedistiller/internal/transform"
	"github.com/unibodydesignn/changedistiller/internal/tree"
)

// DistillSource parses one Java compilation unit and distills every method
// and constructor body in it, in source order. A nil oracle selects
// classify.Default(). The oracle must be safe for concurrent use: bodies
// are distilled in parallel.
func DistillSource(ctx context.Context, src []byte, oracle Oracle) ([]*BodyTree, error) {
	_, trees, err := distill(ctx, src, oracle)
	return trees, err
}

func distill(ctx context.Context, src []byte, oracle Oracle) (*javaparse.File, []*BodyTree, error) {
	if oracle == nil {
		oracle = classify.Default()
	}
	f, err := javaparse.Parse(ctx, src)
	if err != nil {
		return nil, nil, fmt.Errorf("distill: %w", err)
	}

	trees := make([]*BodyTree, len(f.Bodies))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(goruntime.GOMAXPROCS(0))
	for i, b := range f.Bodies {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			trees[i] = distillBody(f, b, oracle)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("distill: %w", err)
	}
	return f, trees, nil
}

// distillBody runs one Transformer over a body. The parsed file is only
// read, so bodies of the same file can be distilled concurrently.
func distillBody(f *javaparse.File, b *javaparse.Body, oracle Oracle) *BodyTree {
	root := tree.NewNode(tree.Method, b.Signature, b.Decl.Range)
	t := transform.New(root, b.Decl, f.Source, b.Comments,
		transform.WithOracle(oracle),
		transform.WithKeywordLocator(f),
	)
	t.Run()
	return &BodyTree{
		Name:        b.Name,
		Owner:       b.Owner,
		Signature:   b.Signature,
		Constructor: b.Constructor,
		Range:       b.Decl.Range,
		Root:        root,
		Unplaced:    t.PendingComments(),
	}
}
