// Package sections is the orchestration layer over the eagle scraper: it
// caches extractions, picks the best strategy for a page, and scores the
// result before handing it to callers.
package sections

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"coursewatch-backend/lib/coursestore"
	"coursewatch-backend/lib/quality"
	"coursewatch-backend/lib/scrapers/eagle"
	"coursewatch-backend/lib/timezone"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/sections")

// ContentProvider supplies schedule page content for a term and subject.
// Satisfied by *eagle.Client; tests substitute a fixture-backed fake.
type ContentProvider interface {
	FetchSchedule(ctx context.Context, term, subject string) (eagle.Content, error)
}

// snapshots older than this are re-scraped
const cacheTTL = 30 * time.Minute

type Service struct {
	provider ContentProvider
	store    coursestore.Store
	policy   quality.Policy
}

func NewService(provider ContentProvider, store coursestore.Store, policy quality.Policy) Service {
	return Service{
		provider: provider,
		store:    store,
		policy:   policy,
	}
}

type SearchRequest struct {
	Term    string
	Subject string
	// substring match on the course code, e.g. "182"
	CourseFilter string
	// substring match on the campus name, case-insensitive
	CampusFilter string
	SkipCache    bool
}

type SearchResponse struct {
	Records []eagle.CourseRecord
	Report  quality.Report
	// name of the strategy that produced the records; empty on a cache hit
	Strategy  string
	FromCache bool
	ScrapedAt time.Time
}

// GetSections returns the sections for a subject, from cache when a fresh
// snapshot exists, otherwise by fetching and extracting the live page.
// An extraction that fails validation is still returned; the report tells
// the caller how much to trust it.
func (s Service) GetSections(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	ctx, span := tracer.Start(ctx, "GetSections")
	defer span.End()

	span.SetAttributes(
		attribute.String("term", req.Term),
		attribute.String("subject", req.Subject),
	)

	query := coursestore.Query{
		Term:         req.Term,
		Subject:      req.Subject,
		CourseFilter: req.CourseFilter,
		CampusFilter: req.CampusFilter,
	}

	if !req.SkipCache {
		snapshot, err := s.store.Get(ctx, query)
		if err != nil && !errors.Is(err, coursestore.ErrMiss) {
			slog.WarnContext(ctx, "failed to read course snapshot", "err", err)
		}
		if err == nil && timezone.Now().Sub(snapshot.ScrapedAt) < cacheTTL {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return SearchResponse{
				Records:   snapshot.Records,
				Report:    s.policy.Validate(snapshot.Records),
				FromCache: true,
				ScrapedAt: snapshot.ScrapedAt,
			}, nil
		}
	}

	content, err := s.provider.FetchSchedule(ctx, req.Term, req.Subject)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return SearchResponse{}, err
	}

	records, report, strategy := s.extract(ctx, content, req.Subject)
	records = applyFilters(records, req.CourseFilter, req.CampusFilter)
	if req.CourseFilter != "" || req.CampusFilter != "" {
		report = s.policy.Validate(records)
	}

	scrapedAt := timezone.Now()
	if !req.SkipCache {
		// a bypassed request never writes either: replayed saved pages
		// must not shadow later live lookups under the same key
		err = s.store.Put(ctx, query, records, scrapedAt)
		if err != nil {
			// a dead cache is an inconvenience, not a failure
			slog.WarnContext(ctx, "failed to write course snapshot", "err", err)
		}
	}

	return SearchResponse{
		Records:   records,
		Report:    report,
		Strategy:  strategy,
		ScrapedAt: scrapedAt,
	}, nil
}

// extract tries the strategies in precision order and stops at the first
// whose output passes validation. When none passes it keeps the
// best-scoring non-empty extraction rather than failing outright.
func (s Service) extract(ctx context.Context, content eagle.Content, subject string) ([]eagle.CourseRecord, quality.Report, string) {
	var bestRecords []eagle.CourseRecord
	var bestReport quality.Report
	var bestStrategy string

	for _, strategy := range eagle.Strategies() {
		records := strategy.Extract(content, subject)
		if len(records) == 0 {
			continue
		}

		report := s.policy.Validate(records)
		if report.Passed {
			return records, report, strategy.Name()
		}

		slog.WarnContext(
			ctx, "extraction failed validation",
			"strategy", strategy.Name(),
			"score", report.OverallScore,
			"records", len(records),
		)
		if bestStrategy == "" || report.OverallScore > bestReport.OverallScore {
			bestRecords = records
			bestReport = report
			bestStrategy = strategy.Name()
		}
	}

	if bestStrategy == "" {
		// nothing extracted at all; an empty page is not an error
		return nil, s.policy.Validate(nil), ""
	}
	return bestRecords, bestReport, bestStrategy
}

func applyFilters(records []eagle.CourseRecord, courseFilter, campusFilter string) []eagle.CourseRecord {
	if courseFilter == "" && campusFilter == "" {
		return records
	}

	courseFilter = strings.ToUpper(courseFilter)
	campusFilter = strings.ToUpper(campusFilter)
	var out []eagle.CourseRecord
	for _, r := range records {
		if courseFilter != "" && !strings.Contains(strings.ToUpper(r.Course), courseFilter) {
			continue
		}
		if campusFilter != "" && !strings.Contains(strings.ToUpper(r.Campus), campusFilter) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// CompareStrategies fetches the page once and scores every strategy over
// it. Always live; comparing cached records would only ever exercise one
// strategy's output.
func (s Service) CompareStrategies(ctx context.Context, term, subject string) ([]quality.StrategyResult, error) {
	ctx, span := tracer.Start(ctx, "CompareStrategies")
	defer span.End()

	content, err := s.provider.FetchSchedule(ctx, term, subject)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return s.policy.CompareStrategies(ctx, content, subject, eagle.Strategies()), nil
}

type Summary struct {
	Total            int
	WithAvailability int
	TotalWaitlisted  int
	ByCampus         map[string]int
}

// Summarize aggregates a record set for display.
func Summarize(records []eagle.CourseRecord) Summary {
	summary := Summary{ByCampus: map[string]int{}}
	for _, r := range records {
		summary.Total++
		if r.HasAvailability {
			summary.WithAvailability++
		}
		summary.TotalWaitlisted += r.WaitlistCount
		summary.ByCampus[r.Campus]++
	}
	return summary
}
