package model

import "time"

// SiteStats is the singleton statistics document shown on the home
// screen.  It lives in the `site_statistics` table as a single row and
// is seeded with DefaultSiteStats when absent.
type SiteStats struct {
	TotalEvents  int       `json:"total_events"`
	TotalMembers int       `json:"total_members"`
	YearsActive  int       `json:"years_active"`
	LastUpdated  time.Time `json:"last_updated"`
}

// DefaultSiteStats returns the fallback values served when the
// statistics row does not exist or cannot be read.
func DefaultSiteStats() SiteStats {
	return SiteStats{
		TotalEvents:  126,
		TotalMembers: 500,
		YearsActive:  12,
	}
}
