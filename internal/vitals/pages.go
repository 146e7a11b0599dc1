package vitals

// PageVitals is the per-path aggregation row: the path's own vitals and
// score plus an opportunity ranking, the traffic-share-weighted headroom to
// a perfect score. Raising a page's score to 100 would lift the site-wide
// score by at most its opportunity.
type PageVitals struct {
	Path        string
	Title       string
	Loads       int
	Score       int
	Vitals      map[MetricName]AggregatedVital
	Opportunity float64
}

// AggregatePages groups samples by path and computes one PageVitals row per
// distinct path, in first-seen order. Loads counts distinct sessions on the
// path; the title is the most recently reported non-empty one. Page rows
// pool every device class, so desktop thresholds and weights apply.
func AggregatePages(samples []Sample) []PageVitals {
	var order []string
	byPath := make(map[string][]Sample)
	for _, s := range samples {
		if _, seen := byPath[s.Path()]; !seen {
			order = append(order, s.Path())
		}
		byPath[s.Path()] = append(byPath[s.Path()], s)
	}

	pages := make([]PageVitals, 0, len(order))
	totalLoads := 0
	for _, path := range order {
		pageSamples := byPath[path]

		byMetric := make(map[MetricName][]Sample)
		for _, s := range pageSamples {
			byMetric[s.Metric()] = append(byMetric[s.Metric()], s)
		}

		aggregated := make(map[MetricName]AggregatedVital, len(MetricNames()))
		for _, name := range MetricNames() {
			aggregated[name] = Aggregate(name, DeviceDesktop, byMetric[name])
		}

		sessions := make(map[string]struct{})
		title := ""
		for _, s := range pageSamples {
			sessions[s.SessionID()] = struct{}{}
			if s.Title() != "" {
				title = s.Title()
			}
		}

		loads := len(sessions)
		totalLoads += loads
		pages = append(pages, PageVitals{
			Path:   path,
			Title:  title,
			Loads:  loads,
			Score:  ComputeScore(DeviceDesktop, aggregated, len(pageSamples)).Overall,
			Vitals: aggregated,
		})
	}

	if totalLoads > 0 {
		for i := range pages {
			share := float64(pages[i].Loads) / float64(totalLoads)
			pages[i].Opportunity = share * float64(100-pages[i].Score)
		}
	}
	return pages
}
