// mhninfo summarizes a saved network artifact: its variant, shape, and
// the strongest pairwise interactions.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/cbio-kiel/mhnctl/internal/mhn"
	"github.com/cbio-kiel/mhnctl/internal/results"
)

type interaction struct {
	from, to string
	value    float64
}

func run(path string, top int) error {
	res, err := results.Load(path)
	if err != nil {
		return err
	}

	n := len(res.Events)
	fmt.Printf("%s network over %d events\n", res.Variant, n)

	var pairs []interaction
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			pairs = append(pairs, interaction{
				from:  res.Events[j],
				to:    res.Events[i],
				value: res.Theta.At(i, j),
			})
		}
	}
	sort.Slice(pairs, func(a, b int) bool {
		return math.Abs(pairs[a].value) > math.Abs(pairs[b].value)
	})
	if top > len(pairs) {
		top = len(pairs)
	}

	fmt.Printf("strongest interactions (log-theta):\n")
	for _, p := range pairs[:top] {
		fmt.Printf("  %-12s -> %-12s %+.4f\n", p.from, p.to, p.value)
	}

	if res.Variant == mhn.VariantOmega {
		fmt.Printf("observation-rate effects:\n")
		for j, name := range res.Events {
			fmt.Printf("  %-12s %+.4f\n", name, res.Theta.At(n, j))
		}
	}
	return nil
}

func main() {
	top := flag.Int("top", 10, "number of interactions to show")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: mhninfo [-top n] <artifact.csv>")
		os.Exit(2)
	}
	if err := run(flag.Arg(0), *top); err != nil {
		fmt.Fprintf(os.Stderr, "mhninfo: %v\n", err)
		os.Exit(1)
	}
}
