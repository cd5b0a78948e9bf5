package field

import "math"

// grid buckets particles into square cells one link distance wide, so only
// the same and adjacent cells can hold linked pairs.
// Buckets are intrusive linked lists over dense slices: rebuilding every
// frame allocates only when the particle count or the cell count grows.
type grid struct {
	cell       float64
	cols, rows int
	originX    float64
	originY    float64
	head       []int // per cell: first particle index, -1 when empty
	next       []int // per particle: next index in the same cell
}

func newGrid(cell float64) *grid {
	return &grid{cell: cell}
}

// build covers [-margin, w+margin] x [-margin, h+margin]. Particles outside
// that band are clamped onto the border cells; clamping never separates two
// particles that share or neighbour a cell, so no pair is missed.
func (g *grid) build(ps []Particle, w, h int, margin float64) {
	g.originX, g.originY = -margin, -margin
	g.cols = int(math.Ceil((float64(w)+2*margin)/g.cell)) + 1
	g.rows = int(math.Ceil((float64(h)+2*margin)/g.cell)) + 1
	cells := g.cols * g.rows
	if cap(g.head) < cells {
		g.head = make([]int, cells)
	}
	g.head = g.head[:cells]
	for i := range g.head {
		g.head[i] = -1
	}
	if cap(g.next) < len(ps) {
		g.next = make([]int, len(ps))
	}
	g.next = g.next[:len(ps)]
	for i := range ps {
		c := g.index(ps[i].X, ps[i].Y)
		g.next[i] = g.head[c]
		g.head[c] = i
	}
}

func (g *grid) coord(v, origin float64, n int) int {
	c := int(math.Floor((v - origin) / g.cell))
	if c < 0 {
		return 0
	}
	if c >= n {
		return n - 1
	}
	return c
}

func (g *grid) index(x, y float64) int {
	return g.coord(y, g.originY, g.rows)*g.cols + g.coord(x, g.originX, g.cols)
}

// forward neighbours: each unordered cell pair is visited once.
var forward = [4][2]int{{1, 0}, {-1, 1}, {0, 1}, {1, 1}}

// pairs calls visit once for every unordered pair in the same or adjacent
// cells, always with i < j.
func (g *grid) pairs(visit func(i, j int)) {
	for cy := 0; cy < g.rows; cy++ {
		for cx := 0; cx < g.cols; cx++ {
			c := cy*g.cols + cx
			for i := g.head[c]; i != -1; i = g.next[i] {
				for j := g.next[i]; j != -1; j = g.next[j] {
					visitOrdered(visit, i, j)
				}
			}
			for _, d := range forward {
				nx, ny := cx+d[0], cy+d[1]
				if nx < 0 || nx >= g.cols || ny >= g.rows {
					continue
				}
				n := ny*g.cols + nx
				for i := g.head[c]; i != -1; i = g.next[i] {
					for j := g.head[n]; j != -1; j = g.next[j] {
						visitOrdered(visit, i, j)
					}
				}
			}
		}
	}
}

func visitOrdered(visit func(i, j int), i, j int) {
	if i > j {
		i, j = j, i
	}
	visit(i, j)
}
