package forcefield

import (
	"sync"

	"github.com/san-kum/mdsim/internal/md"
	"github.com/san-kum/mdsim/internal/vec"
)

// chunks splits [0, n) into workers contiguous ranges.
func chunks(n, workers int) [][2]int {
	size := (n + workers - 1) / workers
	out := make([][2]int, 0, workers)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

func (ff *ForceField) nonbondedParallel(s *md.State) Result {
	ps := s.Particles()
	n := len(ps)
	ranges := chunks(n, ff.opts.Workers)

	if len(ff.buffers) != len(ranges) || len(ff.buffers[0]) != n {
		ff.buffers = make([][]vec.Vec3, len(ranges))
		for w := range ff.buffers {
			ff.buffers[w] = make([]vec.Vec3, n)
		}
	}
	accs := make([]accumulator, len(ranges))

	var wg sync.WaitGroup
	wg.Add(len(ranges))
	for w, rg := range ranges {
		go func(worker, start, end int) {
			defer wg.Done()
			buf := ff.buffers[worker]
			for i := range buf {
				buf[i] = vec.Vec3{}
			}
			ff.pairRows(s, start, end, func(i int, f vec.Vec3) {
				buf[i] = buf[i].Add(f)
			}, &accs[worker])
		}(w, rg[0], rg[1])
	}
	wg.Wait()

	var res Result
	for w := range ranges {
		buf := ff.buffers[w]
		for i := range ps {
			ps[i].Force = ps[i].Force.Add(buf[i])
		}
		res.Nonbonded += accs[w].energy
		res.Virial += accs[w].virial
		res.Clamped += accs[w].clamped
	}
	return res
}
