package vitals

import (
	"testing"
	"time"
)

func pageSample(t *testing.T, session, path, title string, metric MetricName, value float64) Sample {
	t.Helper()
	s, err := NewSample(session, path, title, DeviceDesktop, metric, value, value, "", time.Now())
	if err != nil {
		t.Fatalf("failed to create sample: %v", err)
	}
	return s
}

func TestAggregatePages_Grouping(t *testing.T) {
	samples := []Sample{
		pageSample(t, "s1", "/home", "Home", MetricLCP, 1000),
		pageSample(t, "s2", "/home", "Home", MetricLCP, 1200),
		pageSample(t, "s1", "/home", "Home", MetricTTFB, 300),
		pageSample(t, "s3", "/pricing", "Pricing", MetricLCP, 2000),
	}

	pages := AggregatePages(samples)
	if len(pages) != 2 {
		t.Fatalf("pages length = %d, want 2", len(pages))
	}

	home := pages[0]
	if home.Path != "/home" {
		t.Fatalf("first page = %s, want /home (first-seen order)", home.Path)
	}
	if home.Loads != 2 {
		t.Errorf("home loads = %d, want 2 distinct sessions", home.Loads)
	}
	if home.Title != "Home" {
		t.Errorf("home title = %s, want Home", home.Title)
	}
	if home.Vitals[MetricLCP].Count != 2 {
		t.Errorf("home LCP count = %d, want 2", home.Vitals[MetricLCP].Count)
	}
	if home.Vitals[MetricTTFB].Count != 1 {
		t.Errorf("home TTFB count = %d, want 1", home.Vitals[MetricTTFB].Count)
	}
	if home.Vitals[MetricCLS].Count != 0 {
		t.Errorf("home CLS count = %d, want zero-value aggregate", home.Vitals[MetricCLS].Count)
	}

	pricing := pages[1]
	if pricing.Loads != 1 {
		t.Errorf("pricing loads = %d, want 1", pricing.Loads)
	}
}

func TestAggregatePages_TitleIsLatestNonEmpty(t *testing.T) {
	samples := []Sample{
		pageSample(t, "s1", "/docs", "Docs v1", MetricLCP, 1000),
		pageSample(t, "s2", "/docs", "", MetricLCP, 1000),
		pageSample(t, "s3", "/docs", "Docs v2", MetricLCP, 1000),
		pageSample(t, "s4", "/docs", "", MetricLCP, 1000),
	}

	pages := AggregatePages(samples)
	if pages[0].Title != "Docs v2" {
		t.Errorf("title = %s, want Docs v2", pages[0].Title)
	}
}

func TestAggregatePages_OpportunityFavorsWorsePage(t *testing.T) {
	// Two pages with equal traffic; the worse-scoring page must have the
	// strictly greater opportunity.
	samples := []Sample{
		pageSample(t, "s1", "/fast", "", MetricLCP, 500),  // scores 90
		pageSample(t, "s2", "/slow", "", MetricLCP, 2000), // scores 60
	}

	pages := AggregatePages(samples)
	if len(pages) != 2 {
		t.Fatalf("pages length = %d, want 2", len(pages))
	}

	fast, slow := pages[0], pages[1]
	if fast.Score != 90 {
		t.Errorf("fast score = %d, want 90", fast.Score)
	}
	if slow.Score != 60 {
		t.Errorf("slow score = %d, want 60", slow.Score)
	}
	if slow.Opportunity <= fast.Opportunity {
		t.Errorf("opportunity: slow %v must be strictly greater than fast %v", slow.Opportunity, fast.Opportunity)
	}
	// Equal traffic share of 0.5: 0.5*(100-60)=20 vs 0.5*(100-90)=5
	if slow.Opportunity != 20 {
		t.Errorf("slow opportunity = %v, want 20", slow.Opportunity)
	}
	if fast.Opportunity != 5 {
		t.Errorf("fast opportunity = %v, want 5", fast.Opportunity)
	}
}

func TestAggregatePages_Empty(t *testing.T) {
	pages := AggregatePages(nil)
	if len(pages) != 0 {
		t.Errorf("pages length = %d, want 0", len(pages))
	}
}
