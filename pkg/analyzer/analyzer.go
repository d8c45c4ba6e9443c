package analyzer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/querylimit/query-rate-limiter/pkg/limiter"
	"github.com/querylimit/query-rate-limiter/pkg/store"
)

// DefaultQueryTypeName is the owner type whose fields are rate limited
// unless overridden via WithQueryTypeName.
const DefaultQueryTypeName = "Query"

// Analyzer is the query-analyzer hook. One instance serves many concurrent
// requests; all per-request state lives in the Memo.
type Analyzer struct {
	store         store.Store
	limits        Limits
	queryTypeName string
	logger        *zap.Logger
	limiterOpts   []limiter.Option
}

// New builds an Analyzer over the given counter store and limits table.
func New(st store.Store, limits Limits, opts ...Option) (*Analyzer, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	if err := limits.Validate(); err != nil {
		return nil, err
	}

	a := &Analyzer{
		store:         st,
		limits:        limits,
		queryTypeName: DefaultQueryTypeName,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// CheckRecord remembers one rate-limited field visit. Records are appended
// in visit order and reported in the same order.
type CheckRecord struct {
	Operation string
	Key       string
	Spec      limiter.Spec
}

// Memo is the per-request accumulator. It is created fresh by Initial,
// mutated in place by OnVisit during the single traversal, and read once by
// Final. It must not be shared across requests.
type Memo struct {
	limiter *limiter.SlidingWindowLimiter
	checks  []CheckRecord
}

// ClientIdentity returns the identity the memo was seeded with.
func (m *Memo) ClientIdentity() string {
	return m.limiter.Identity()
}

// Checks returns the accumulated records in visit order.
func (m *Memo) Checks() []CheckRecord {
	return m.checks
}

// Initial builds the memo for one request, binding a limiter to the
// client's identity.
func (a *Analyzer) Initial(req Request) (*Memo, error) {
	l, err := limiter.New(a.store, req.ClientIdentity, a.limiterOpts...)
	if err != nil {
		return nil, err
	}
	return &Memo{limiter: l}, nil
}

// OnVisit is called by the host traversal at every node-visit event. It is
// a no-op unless the traversal is entering a top-level query field with a
// configured limit; then it appends a CheckRecord and records one event
// against the client's counter before returning.
func (a *Analyzer) OnVisit(ctx context.Context, memo *Memo, phase VisitPhase, node Node) error {
	if memo == nil {
		return errors.New("memo is required; call Initial first")
	}
	if phase != PhaseEnter || node.Kind != KindField || node.OwnerTypeName != a.queryTypeName {
		return nil
	}

	spec, ok := a.limits[node.DeclaredName]
	if !ok {
		return nil
	}

	memo.checks = append(memo.checks, CheckRecord{
		Operation: node.DeclaredName,
		Key:       memo.limiter.Key(node.DeclaredName),
		Spec:      spec,
	})
	if err := memo.limiter.Add(ctx, node.DeclaredName); err != nil {
		return fmt.Errorf("recording %s: %w", node.DeclaredName, err)
	}

	a.logger.Debug("rate limit check recorded",
		zap.String("client", memo.ClientIdentity()),
		zap.String("operation", node.DeclaredName),
	)
	return nil
}

// Final computes the verdict: nil when every accumulated check is within
// its window, otherwise a single *QueryRateLimitedError naming all exceeded
// operations in visit order.
func (a *Analyzer) Final(ctx context.Context, memo *Memo) error {
	if memo == nil {
		return errors.New("memo is required; call Initial first")
	}

	var exceeded []string
	for _, rec := range memo.checks {
		over, err := memo.limiter.Exceeded(ctx, rec.Operation, rec.Spec)
		if err != nil {
			return fmt.Errorf("checking %s: %w", rec.Operation, err)
		}
		if over {
			exceeded = append(exceeded, rec.Operation)
		}
	}
	if len(exceeded) == 0 {
		return nil
	}

	a.logger.Info("query rate limit exceeded",
		zap.String("client", memo.ClientIdentity()),
		zap.Strings("operations", exceeded),
	)
	return &QueryRateLimitedError{Operations: exceeded}
}
