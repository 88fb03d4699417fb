package random

import (
	"math/rand"
	"sync"
	"time"
)

// Random is the only source of randomness the game logic draws from.
type Random interface {
	Intn(n int) int
}

type Seeded struct {
	r *rand.Rand
}

var _ Random = (*Seeded)(nil)

func NewSeeded(seed int64) *Seeded {
	return &Seeded{r: rand.New(rand.NewSource(seed))}
}

func NewTimeSeeded() *Seeded {
	return NewSeeded(time.Now().UnixNano())
}

func (s *Seeded) Intn(n int) int {
	return s.r.Intn(n)
}

// Locked wraps a Random so it can be shared between goroutines.
type Locked struct {
	mu  sync.Mutex
	src Random
}

var _ Random = (*Locked)(nil)

func NewLocked(src Random) *Locked {
	return &Locked{src: src}
}

func (l *Locked) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Intn(n)
}

// Sequence replays a fixed list of values, each reduced modulo n.
// It wraps around once the list is consumed. An empty sequence always
// returns 0.
type Sequence struct {
	values []int
	next   int
}

var _ Random = (*Sequence)(nil)

func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) Intn(n int) int {
	if len(s.values) == 0 || n <= 0 {
		return 0
	}

	v := s.values[s.next%len(s.values)]
	s.next++

	v %= n
	if v < 0 {
		v += n
	}
	return v
}
