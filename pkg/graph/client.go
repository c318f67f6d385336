package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/constellation/backend/internal/util"
	"github.com/OFFIS-RIT/constellation/backend/pkg/ai"
	"github.com/OFFIS-RIT/constellation/backend/pkg/common"
	"github.com/OFFIS-RIT/constellation/backend/pkg/logger"
	"github.com/OFFIS-RIT/constellation/backend/pkg/metrics"
	"github.com/OFFIS-RIT/constellation/backend/pkg/templates"

	"golang.org/x/sync/errgroup"
)

// GraphClient resolves topics to validated graphs. Templates answer known
// topics, the generic generator answers everything else, and an optional
// external Source is tried first by GenerateGraphWithFallback.
//
// A GraphClient should be created using NewGraphClient. It is safe for
// concurrent use as long as its Generator is.
type GraphClient struct {
	registry  *templates.Registry
	generator *Generator
	source    Source

	strictCategories bool
	repairJSON       bool
	simulatedLatency time.Duration
	parallelTopics   int
	timeout          time.Duration
	maxRetries       int
}

// NewGraphClientParams defines the configuration parameters for creating
// a new GraphClient.
//
// Registry defaults to the built-in templates and Generator to one drawing
// from the global random source. Source is optional; without it
// GenerateGraph returns ErrNoSource. Timeout bounds a single Source call
// and MaxRetries the number of attempts. SimulatedLatency delays every
// FetchGraph call. ParallelTopics bounds FetchGraphs.
type NewGraphClientParams struct {
	Registry  *templates.Registry
	Generator *Generator
	Source    Source

	StrictCategories bool
	RepairJSON       bool
	SimulatedLatency time.Duration
	ParallelTopics   int
	Timeout          time.Duration
	MaxRetries       int
}

// NewGraphClient creates and returns a new GraphClient configured with
// the provided parameters.
//
// Example:
//
//	client := graph.NewGraphClient(graph.NewGraphClientParams{
//		ParallelTopics: 4,
//	})
//	g, err := client.FetchGraph(ctx, "machine learning")
func NewGraphClient(params NewGraphClientParams) *GraphClient {
	registry := params.Registry
	if registry == nil {
		registry = templates.Default()
	}
	generator := params.Generator
	if generator == nil {
		generator = NewGenerator(nil)
	}
	parallel := params.ParallelTopics
	if parallel <= 0 {
		parallel = 4
	}
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &GraphClient{
		registry:  registry,
		generator: generator,
		source:    params.Source,

		strictCategories: params.StrictCategories,
		repairJSON:       params.RepairJSON,
		simulatedLatency: params.SimulatedLatency,
		parallelTopics:   parallel,
		timeout:          params.Timeout,
		maxRetries:       maxRetries,
	}
}

// Templates returns the registry the client looks topics up in.
func (c *GraphClient) Templates() *templates.Registry {
	return c.registry
}

// HasSource reports whether an external source is configured.
func (c *GraphClient) HasSource() bool {
	return c.source != nil
}

func (c *GraphClient) options() []Option {
	return []Option{
		WithStrictCategories(c.strictCategories),
		WithRepair(c.repairJSON),
	}
}

// Validate checks g with the client's category policy.
func (c *GraphClient) Validate(g *common.Graph) error {
	return Validate(g, c.options()...)
}

// Parse runs ParseExternalResponse with the client's category and repair
// policy.
func (c *GraphClient) Parse(raw string) (*common.Graph, error) {
	return ParseExternalResponse(raw, c.options()...)
}

// FetchGraph returns the template for topic, or a generated graph when no
// template matches. The result is always valid; a validation failure is
// a defect in an internal source and is reported as ErrInternalSource.
func (c *GraphClient) FetchGraph(ctx context.Context, topic string) (*common.Graph, error) {
	g, _, err := c.fetch(ctx, topic)
	return g, err
}

func (c *GraphClient) fetch(ctx context.Context, topic string) (*common.Graph, string, error) {
	if err := c.wait(ctx); err != nil {
		return nil, "", err
	}

	source := metrics.SourceTemplate
	g, ok := c.registry.Lookup(NormalizeTopic(topic))
	if !ok {
		source = metrics.SourceGeneric
		g = c.generator.Generate(topic)
	}

	if err := c.Validate(g); err != nil {
		kind, _ := KindOf(err)
		logger.Error("[Graph] Internal source produced an invalid graph",
			"topic", topic, "source", source, "kind", kind, "err", err)
		metrics.ValidationFailures.WithLabelValues("internal", string(kind)).Inc()
		return nil, "", fmt.Errorf("%w: %s graph for %q: %w", ErrInternalSource, source, topic, err)
	}

	metrics.GraphsServed.WithLabelValues(source).Inc()
	return g, source, nil
}

func (c *GraphClient) wait(ctx context.Context) error {
	if c.simulatedLatency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(c.simulatedLatency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// FetchGraphs fetches every topic concurrently and returns the graphs in
// input order. The first failure cancels the remaining fetches.
func (c *GraphClient) FetchGraphs(ctx context.Context, topics []string) ([]*common.Graph, error) {
	graphs := make([]*common.Graph, len(topics))

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.parallelTopics)

	for i, topic := range topics {
		eg.Go(func() error {
			g, err := c.FetchGraph(gCtx, topic)
			if err != nil {
				return fmt.Errorf("fetch %q: %w", topic, err)
			}
			graphs[i] = g
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return graphs, nil
}

// SourceError wraps a failed call to the external source itself, as
// opposed to a rejected response. It is retryable.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	return "external source failed: " + e.Err.Error()
}

func (e *SourceError) Unwrap() error { return e.Err }

// IsTimeout reports whether the call ran out of time.
func (e *SourceError) IsTimeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

func isSourceError(err error) bool {
	var se *SourceError
	return errors.As(err, &se)
}

// GenerateGraph asks the external source for a graph and parses the
// answer. A failed or timed out call is retried up to MaxRetries times; a
// response that fails to parse or validate is returned immediately.
func (c *GraphClient) GenerateGraph(ctx context.Context, topic string) (*common.Graph, error) {
	if c.source == nil {
		return nil, ErrNoSource
	}

	return util.RetryWithContext(ctx, c.maxRetries, isSourceError,
		func(ctx context.Context) (*common.Graph, error) {
			return c.generateOnce(ctx, topic)
		})
}

func (c *GraphClient) generateOnce(ctx context.Context, topic string) (*common.Graph, error) {
	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := c.source.GenerateRaw(callCtx, topic)
	metrics.SourceDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SourceRequests.WithLabelValues("retryable_error").Inc()
		logger.Warn("[Graph] External source call failed", "topic", topic, "err", err)
		return nil, &SourceError{Err: err}
	}

	g, err := c.Parse(raw)
	if err != nil {
		kind, _ := KindOf(err)
		metrics.SourceRequests.WithLabelValues("rejected").Inc()
		metrics.ValidationFailures.WithLabelValues("external", string(kind)).Inc()
		logger.Debug("[Graph] Rejected external response",
			"topic", topic, "kind", kind, "response", Snippet(raw))
		return nil, err
	}

	metrics.SourceRequests.WithLabelValues("ok").Inc()
	metrics.GraphsServed.WithLabelValues(metrics.SourceModel).Inc()
	return g, nil
}

// GenerateGraphWithFallback tries GenerateGraph and falls back to
// FetchGraph on any failure. It reports which source answered.
func (c *GraphClient) GenerateGraphWithFallback(ctx context.Context, topic string) (*common.Graph, string, error) {
	if c.source != nil {
		g, err := c.GenerateGraph(ctx, topic)
		if err == nil {
			return g, metrics.SourceModel, nil
		}
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}

		kind := failureKind(err)
		metrics.Fallbacks.WithLabelValues(kind).Inc()
		logger.Warn("[Graph] Falling back to local graph", "topic", topic, "kind", kind, "err", err)
	}

	return c.fetch(ctx, topic)
}

func failureKind(err error) string {
	if kind, ok := KindOf(err); ok {
		return string(kind)
	}
	var se *SourceError
	if errors.As(err, &se) {
		if se.IsTimeout() {
			return "timeout"
		}
		return "source_error"
	}
	return "unknown"
}

// Snippet shortens raw model output for diagnostics.
func Snippet(raw string) string {
	return ai.Truncate(raw, snippetLength)
}
