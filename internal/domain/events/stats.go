package events

// Stats summarizes the event set for the dashboard.
type Stats struct {
	TotalEvents        int    `json:"totalEvents"`
	TotalRegistrations int    `json:"totalRegistrations"`
	TotalVenues        int    `json:"totalVenues"`
	UpcomingEvents     int    `json:"upcomingEvents"`
	OngoingEvents      int    `json:"ongoingEvents"`
	CompletedEvents    int    `json:"completedEvents"`
	MostPopularEventID string `json:"mostPopularEventId,omitempty"`
}

// ComputeStats walks src once. Ties for most popular go to the earliest
// event; an event set with no registrations has no most popular event.
func ComputeStats(src Source, totalVenues int) Stats {
	stats := Stats{TotalVenues: totalVenues}
	best := 0
	for ev := range src.All() {
		stats.TotalEvents++
		n := len(ev.RegisteredStudents)
		stats.TotalRegistrations += n
		switch ev.Status {
		case StatusUpcoming:
			stats.UpcomingEvents++
		case StatusOngoing:
			stats.OngoingEvents++
		case StatusCompleted:
			stats.CompletedEvents++
		}
		if n > best {
			best = n
			stats.MostPopularEventID = ev.ID
		}
	}
	return stats
}
