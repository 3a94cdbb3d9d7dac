package quality

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"coursewatch-backend/lib/scrapers/eagle"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("lib/quality")

// StrategyResult is one extraction strategy's run over a page, scored
// and ranked against the others.
type StrategyResult struct {
	Strategy string               `json:"strategy"`
	Records  []eagle.CourseRecord `json:"records"`
	Report   Report               `json:"report"`
	// 1 is best; ranking is by overall score, record count breaking ties
	Rank int    `json:"rank"`
	Err  string `json:"err,omitempty"`
}

// CompareStrategies runs every registered extraction strategy over the
// same content, scoring each against the default policy.
func CompareStrategies(ctx context.Context, content eagle.Content, subject string) []StrategyResult {
	return DefaultPolicy().CompareStrategies(ctx, content, subject, eagle.Strategies())
}

// CompareStrategies never fails as a whole: a strategy that panics or
// extracts nothing is recorded with a zero-score report and sinks to the
// bottom of the ranking.
func (p Policy) CompareStrategies(
	ctx context.Context,
	content eagle.Content,
	subject string,
	strategies []eagle.Strategy,
) []StrategyResult {
	ctx, span := tracer.Start(ctx, "CompareStrategies")
	defer span.End()

	results := make([]StrategyResult, 0, len(strategies))
	for _, s := range strategies {
		result := p.runStrategy(ctx, s, content, subject)
		span.AddEvent("strategy scored", trace.WithAttributes(
			attribute.String("strategy", result.Strategy),
			attribute.Float64("score", result.Report.OverallScore),
			attribute.Int("records", len(result.Records)),
		))
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Report.OverallScore != results[j].Report.OverallScore {
			return results[i].Report.OverallScore > results[j].Report.OverallScore
		}
		return len(results[i].Records) > len(results[j].Records)
	})
	for i := range results {
		results[i].Rank = i + 1
	}

	return results
}

func (p Policy) runStrategy(
	ctx context.Context,
	strategy eagle.Strategy,
	content eagle.Content,
	subject string,
) (result StrategyResult) {
	result.Strategy = strategy.Name()

	// a strategy blowing up on a malformed page must not take the
	// comparison down with it
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(
				ctx, "extraction strategy panicked",
				"strategy", strategy.Name(),
				"panic", r,
			)
			result.Records = nil
			result.Report = p.Validate(nil)
			result.Err = fmt.Sprintf("strategy panicked: %v", r)
		}
	}()

	result.Records = strategy.Extract(content, subject)
	result.Report = p.Validate(result.Records)
	if len(result.Records) == 0 {
		result.Err = "no records extracted"
	}
	return result
}
