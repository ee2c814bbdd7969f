package flatIndex

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Hit is one search result: the stored position and its squared L2 distance.
type Hit struct {
	Position int
	Distance float32
}

// Index is an exact squared-L2 nearest-neighbour index over a flat vector list.
// Safe for concurrent use.
type Index struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float32
}

func New(dimension int) *Index {
	return &Index{dimension: dimension}
}

// Build returns an index over copies of vectors. An empty input gives an empty
// index of dimension 0 which accepts the first vector's dimension on Add.
func Build(vectors [][]float32) (*Index, error) {
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	idx := New(dim)
	if err := idx.Add(vectors...); err != nil {
		return nil, err
	}
	return idx, nil
}

func (i *Index) Add(vectors ...[]float32) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	for n, v := range vectors {
		if i.dimension == 0 && len(i.vectors) == 0 {
			i.dimension = len(v)
		}
		if len(v) != i.dimension || len(v) == 0 {
			return fmt.Errorf("%w: vector %d has %d, index has %d", ErrDimensionMismatch, n, len(v), i.dimension)
		}
	}
	for _, v := range vectors {
		i.vectors = append(i.vectors, append([]float32(nil), v...))
	}
	return nil
}

func (i *Index) Dimension() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.dimension
}

func (i *Index) Count() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.vectors)
}

// Search returns up to k hits ordered by ascending distance, ties by position.
// k larger than Count returns every vector; k <= 0 returns nothing.
func (i *Index) Search(query []float32, k int) ([]Hit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if k <= 0 || len(i.vectors) == 0 {
		return []Hit{}, nil
	}
	if len(query) != i.dimension {
		return nil, fmt.Errorf("%w: query has %d, index has %d", ErrDimensionMismatch, len(query), i.dimension)
	}

	hits := make([]Hit, len(i.vectors))
	for pos, v := range i.vectors {
		hits[pos] = Hit{Position: pos, Distance: squaredL2(query, v)}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Distance < hits[b].Distance
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// ReconstructAll returns copies of the stored vectors in insertion order.
func (i *Index) ReconstructAll() [][]float32 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([][]float32, len(i.vectors))
	for n, v := range i.vectors {
		out[n] = append([]float32(nil), v...)
	}
	return out
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for n := range a {
		d := a[n] - b[n]
		sum += d * d
	}
	return sum
}
