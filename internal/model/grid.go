package model

import "sort"

// Grid maps hyperparameter names to their candidate values. Grids are static
// configuration and never mutated at runtime.
type Grid map[string][]any

// Enumerate expands the grid into every hyperparameter combination, in a
// deterministic order: keys sorted lexicographically, values cycled
// odometer-style with the last key fastest. Grid-search tie-breaks rely on
// this order being stable across runs. An empty grid yields one empty Params.
func (g Grid) Enumerate() []Params {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	total := 1
	for _, k := range keys {
		if len(g[k]) == 0 {
			return nil
		}
		total *= len(g[k])
	}

	combos := make([]Params, 0, total)
	idx := make([]int, len(keys))
	for {
		p := make(Params, len(keys))
		for i, k := range keys {
			p[k] = g[k][idx[i]]
		}
		combos = append(combos, p)

		// Advance the odometer, last key fastest.
		i := len(keys) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(g[keys[i]]) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			break
		}
	}
	return combos
}
