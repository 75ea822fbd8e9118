// Package nondet provides lazy, pull-based sequences of alternative solutions.
package nondet

// Stream is a lazy sequence of solutions. Solutions are computed one at a time as the consumer calls Next.
// A Stream can't be rewound; to start over, build a new one. Stopping early needs no cleanup.
type Stream[T any] struct {
	next func() (T, bool, error)

	current T
	err     error
	done    bool
}

// Generate returns a stream which solutions are produced by next. next reports false when there are no more.
func Generate[T any](next func() (T, bool, error)) *Stream[T] {
	return &Stream[T]{next: next}
}

// Unit returns a stream of exactly one solution.
func Unit[T any](v T) *Stream[T] {
	var used bool
	return Generate(func() (T, bool, error) {
		if used {
			var zero T
			return zero, false, nil
		}
		used = true
		return v, true, nil
	})
}

// Empty returns a stream without solutions.
func Empty[T any]() *Stream[T] {
	return Generate(func() (T, bool, error) {
		var zero T
		return zero, false, nil
	})
}

// Delay returns a stream of the solutions of the streams built by ks, from left to right.
// Each stream is built only when the previous one is exhausted.
func Delay[T any](ks ...func() *Stream[T]) *Stream[T] {
	var s *Stream[T]
	return Generate(func() (T, bool, error) {
		for {
			if s == nil {
				if len(ks) == 0 {
					var zero T
					return zero, false, nil
				}
				s, ks = ks[0](), ks[1:]
			}
			if s.Next() {
				return s.Current(), true, nil
			}
			if err := s.Err(); err != nil {
				var zero T
				return zero, false, err
			}
			s = nil
		}
	})
}

// Next proceeds to the next solution and reports whether there's one.
func (s *Stream[T]) Next() bool {
	if s.done {
		return false
	}
	v, ok, err := s.next()
	if err != nil {
		s.err = err
	}
	if !ok || err != nil {
		var zero T
		s.current, s.done = zero, true
		return false
	}
	s.current = v
	return true
}

// Current returns the current solution.
func (s *Stream[T]) Current() T {
	return s.current
}

// Err returns the error that stopped the stream, if any.
func (s *Stream[T]) Err() error {
	return s.err
}

// Collect pulls all the remaining solutions.
func Collect[T any](s *Stream[T]) ([]T, error) {
	var ret []T
	for s.Next() {
		ret = append(ret, s.Current())
	}
	return ret, s.Err()
}

// Take pulls at most n of the remaining solutions.
func Take[T any](s *Stream[T], n int) ([]T, error) {
	var ret []T
	for len(ret) < n && s.Next() {
		ret = append(ret, s.Current())
	}
	return ret, s.Err()
}
