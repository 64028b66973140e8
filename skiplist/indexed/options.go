package indexed

import "math/rand"

// Option configures a SkipList at construction time.
type Option func(*SkipList)

// WithDebugChecks turns on the roaring-bitmap-backed membership oracle: every
// Insert/Remove is checked against the set of currently-live indices first,
// and a violation comes back as ErrAlreadyLive or ErrNotLive instead of
// silently corrupting the link arrays. Off by default, since it costs a
// bitmap lookup per call.
func WithDebugChecks() Option {
	return func(s *SkipList) {
		s.debug = newMembership()
	}
}

// WithSeed pins the random source used for level promotion, for
// reproducible traces in tests and benchmarks.
func WithSeed(seed int64) Option {
	return func(s *SkipList) {
		s.rand = rand.New(rand.NewSource(seed))
	}
}
