package descriptor

import "iter"

// Configurations returns the lazy sequence of every concrete configuration
// the descriptor denotes. Each call starts over from the first combination,
// and every yielded map is freshly allocated.
//
// With no list fields the sequence holds exactly one configuration equal to
// the scalars. If any list field is empty the sequence is empty.
func (d *Descriptor) Configurations() iter.Seq[Configuration] {
	multi := d.Multi()
	scalars := d.Scalars()

	return func(yield func(Configuration) bool) {
		for _, f := range multi {
			if len(f.Value.list) == 0 {
				return
			}
		}

		// Odometer over the list indexes; the last field turns fastest.
		idx := make([]int, len(multi))
		for {
			cfg := make(Configuration, len(multi)+len(scalars))
			for i, f := range multi {
				cfg[f.Name] = f.Value.list[idx[i]]
			}
			// Key sets are disjoint, so scalars never shadow product values.
			for _, f := range scalars {
				cfg[f.Name] = f.Value.scalar
			}

			if !yield(cfg) {
				return
			}

			i := len(multi) - 1
			for ; i >= 0; i-- {
				idx[i]++
				if idx[i] < len(multi[i].Value.list) {
					break
				}
				idx[i] = 0
			}
			if i < 0 {
				return
			}
		}
	}
}

// Expand loads the descriptor at path and returns its configurations.
func Expand(path string) (iter.Seq[Configuration], error) {
	d, err := Load(path)
	if err != nil {
		return nil, err
	}
	return d.Configurations(), nil
}
