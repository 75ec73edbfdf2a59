package changedistiller

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// benchJavaSource is a mid-sized Java class with nested control flow,
// exception handling and comments for exercising the whole pipeline.
const benchJavaSource = `package bench;

import java.util.ArrayList;
import java.util.List;
import java.util.Map;

public class Orders {
    private final Map<String, Integer> stock;
    private final List<String> audit = new ArrayList<>();

    public Orders(Map<String, Integer> stock) {
        // stock is shared with the warehouse
        this.stock = stock;
    }

    /** Places an order, returning the number of units reserved. */
    public int place(String sku, int qty) {
        if (sku == null || qty <= 0) {
            throw new IllegalArgumentException("bad order");
        }
        Integer available = stock.get(sku);
        if (available == null) {
            // unknown sku
            return 0;
        } else if (available < qty) {
            log.warn("partial order for " + sku);
            qty = available;
        }
        stock.put(sku, available - qty); // reserve
        audit.add(sku + ":" + qty);
        return qty;
    }

    public int restock(List<String> skus, int amount) {
        int touched = 0;
        for (String sku : skus) {
            if (!stock.containsKey(sku)) {
                continue;
            }
            stock.merge(sku, amount, Integer::sum);
            touched++;
        }
        return touched;
    }

    public String describe(int level) {
        switch (level) {
            case 0:
                return "empty";
            case 1:
                return "low";
            default:
                break;
        }
        StringBuilder sb = new StringBuilder();
        int i = 0;
        while (i < level) {
            sb.append('#');
            i++;
        }
        do {
            sb.append('.');
        } while (sb.length() < 10);
        return sb.toString();
    }

    public void flush() {
        synchronized (audit) {
            try {
                for (int i = 0; i < audit.size(); i++) {
                    write(audit.get(i));
                }
            } catch (IllegalStateException | NullPointerException e) {
                /* dropped */
                log.error("flush failed");
            } finally {
                audit.clear();
            }
        }
    }
}
`

func BenchmarkDistillSource(b *testing.B) {
	ctx := context.Background()
	src := []byte(benchJavaSource)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := DistillSource(ctx, src, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func setupBenchFiles(b *testing.B, n int) []string {
	b.Helper()
	dir := b.TempDir()
	paths := make([]string, n)
	for i := range paths {
		name := "Orders" + strings.Repeat("X", i) + ".java"
		paths[i] = filepath.Join(dir, name)
		if err := os.WriteFile(paths[i], []byte(benchJavaSource), 0644); err != nil {
			b.Fatal(err)
		}
	}
	return paths
}

func benchmarkIndexFiles(b *testing.B, parallel bool) {
	ctx := context.Background()
	paths := setupBenchFiles(b, 16)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		e, err := New(filepath.Join(b.TempDir(), "bench.db"), WithParallel(parallel))
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()

		if err := e.IndexFiles(ctx, paths); err != nil {
			e.Close()
			b.Fatal(err)
		}

		b.StopTimer()
		e.Close()
		b.StartTimer()
	}
}

func BenchmarkIndexFiles_Serial(b *testing.B)   { benchmarkIndexFiles(b, false) }
func BenchmarkIndexFiles_Parallel(b *testing.B) { benchmarkIndexFiles(b, true) }

// BenchmarkQueryTree measures rebuilding a stored tree.
func BenchmarkQueryTree(b *testing.B) {
	ctx := context.Background()
	paths := setupBenchFiles(b, 1)
	e, err := New(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer e.Close()
	if err := e.IndexFiles(ctx, paths); err != nil {
		b.Fatal(err)
	}
	q := e.Query()
	body, _, err := q.TreeBySignature(paths[0], "flush()")
	if err != nil || body == nil {
		b.Fatalf("flush() not indexed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := q.Tree(body.ID); err != nil {
			b.Fatal(err)
		}
	}
}
