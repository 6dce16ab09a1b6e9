package atpg

// CandidateOrdering selects the traversal order in which fault candidates
// are drawn from a changed subformula.
type CandidateOrdering int

const (
	// BottomUp visits children before parents. This is the default: it lets
	// redundancy removal collapse leaves first, shrinking the subformula
	// before more expensive ancestor faults are even considered.
	BottomUp CandidateOrdering = iota
	// DepthFirst visits the subformula in post-order (children before
	// parent), finishing with the LCA.
	DepthFirst
	// BreadthFirst visits the subformula level by level.
	BreadthFirst
)

// Option customizes a Driver's behavior. It mutates a config before a run
// begins; options are applied in order, so later options win.
type Option func(cfg *config)

// config holds the resolved, immutable-for-the-run settings for Driver.
type config struct {
	noATPG           bool
	noGlobalFlow     bool
	propLimitSet     bool
	propLimit        int
	optSubgraphLimit int
	showOptInfo      bool
	ordering         CandidateOrdering
}

// newConfig builds a config with defaults and applies opts in order.
func newConfig(opts ...Option) *config {
	cfg := &config{
		optSubgraphLimit: 0, // 0 means unlimited
		ordering:         BottomUp,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithNoATPG disables redundancy removal entirely; only global-flow
// optimization runs.
func WithNoATPG() Option {
	return func(cfg *config) { cfg.noATPG = true }
}

// WithNoGlobalFlow disables global-flow optimization entirely; only
// redundancy removal runs.
func WithNoGlobalFlow() Option {
	return func(cfg *config) { cfg.noGlobalFlow = true }
}

// WithPropagationLimit overrides the size-indexed propagation budget table
// with a single fixed limit applied to every pass.
func WithPropagationLimit(limit int) Option {
	return func(cfg *config) {
		cfg.propLimitSet = true
		cfg.propLimit = limit
	}
}

// WithOptSubgraphLimit caps the node count of a changed subformula a pass
// will attempt; subformulas larger than limit are skipped untouched.
// limit <= 0 means unlimited.
func WithOptSubgraphLimit(limit int) Option {
	return func(cfg *config) { cfg.optSubgraphLimit = limit }
}

// WithShowOptInfo records the show_opt_info flag. Driver.Run collects and
// returns Stats whether or not it is set; rendering them is left to the
// caller (see package report).
func WithShowOptInfo() Option {
	return func(cfg *config) { cfg.showOptInfo = true }
}

// WithOrdering selects the candidate traversal order.
func WithOrdering(o CandidateOrdering) Option {
	return func(cfg *config) { cfg.ordering = o }
}

// propagationBudget returns the propagation step budget for a subformula
// of the given node count, per the size-indexed default table, unless a
// fixed limit was configured via WithPropagationLimit.
func propagationBudget(cfg *config, size int) int {
	if cfg.propLimitSet {
		return cfg.propLimit
	}
	switch {
	case size <= 800:
		return 1500000
	case size <= 1000:
		return 1200000
	case size <= 1500:
		return 800000
	case size <= 2000:
		return 700000
	case size <= 3000:
		return 600000
	case size <= 4000:
		return 500000
	case size <= 6000:
		return 300000
	case size <= 8000:
		return 200000
	case size <= 10000:
		return 100000
	case size <= 12000:
		return 50000
	default:
		return 10000
	}
}
