package enhance

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/HJantango/wild-octave-invoice/constants"
	"github.com/HJantango/wild-octave-invoice/internal/common"
	"github.com/HJantango/wild-octave-invoice/internal/entity"
	"github.com/HJantango/wild-octave-invoice/internal/metrics"
)

// Enhancer coordinates the optional remote enhancement call with the local
// rule engine. Any remote failure — timeout, open breaker, malformed
// response — falls through unconditionally to the local rules, so the
// result is always the rule engine's output or a refinement of it.
type Enhancer struct {
	remote  RemoteEnhancer
	rules   *RuleEngine
	breaker *gobreaker.CircuitBreaker[[]entity.LineItem]
	timeout time.Duration
	logger  *slog.Logger
}

func NewEnhancer(remote RemoteEnhancer, rules *RuleEngine, timeout time.Duration, logger *slog.Logger) *Enhancer {
	if rules == nil {
		rules = NewRuleEngine()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	cb := gobreaker.NewCircuitBreaker[[]entity.LineItem](gobreaker.Settings{
		Name:    "enhancement-service",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &Enhancer{
		remote:  remote,
		rules:   rules,
		breaker: cb,
		timeout: timeout,
		logger:  logger,
	}
}

// Enhance returns the enhanced line items. Never fails.
func (e *Enhancer) Enhance(ctx context.Context, items []entity.LineItem) []entity.LineItem {
	if e.remote == nil {
		return e.rules.Apply(items)
	}

	reqID := common.RequestIDFromContext(ctx)
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	enhanced, err := e.breaker.Execute(func() ([]entity.LineItem, error) {
		return e.remote.EnhanceItems(callCtx, items)
	})
	if err != nil {
		metrics.EnhancementFailures.Inc()
		e.logger.Warn("enhance.remote_failed_using_rules",
			"req_id", reqID,
			"error", err,
			"breaker_state", e.breaker.State().String(),
		)
		return e.rules.Apply(items)
	}
	return enhanced
}

// canonicalCategory maps a remote label onto the fixed taxonomy.
func canonicalCategory(label string) (constants.Category, bool) {
	return constants.Canonicalize(label)
}
