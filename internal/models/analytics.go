package models

import "time"

// VisitorRecord is one logged page view. The IP is stored as a salted
// hash, never raw.
type VisitorRecord struct {
	Timestamp     time.Time `json:"timestamp"`
	IPHash        string    `json:"ip_hash"`
	UserAgent     string    `json:"user_agent"`
	Path          string    `json:"path"`
	Referrer      string    `json:"referrer"`
	Method        string    `json:"method"`
	IsMalicious   bool      `json:"is_malicious"`
	IsBlacklisted bool      `json:"is_blacklisted"`
}

// UniqueVisitors holds deduplicated visitor counts per window.
type UniqueVisitors struct {
	Today   int `json:"today"`
	Week    int `json:"week"`
	Month   int `json:"month"`
	AllTime int `json:"all_time"`
}

// PageViews holds raw view counts per window.
type PageViews struct {
	Today int `json:"today"`
	Week  int `json:"week"`
	Month int `json:"month"`
}

// PathCount is a path ranked by view frequency.
type PathCount struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// ReferrerCount is a referrer hostname ranked by frequency.
type ReferrerCount struct {
	Referrer string `json:"referrer"`
	Count    int    `json:"count"`
}

// StatsReport is the full analytics report returned to the admin panel.
type StatsReport struct {
	TotalPageViews    int             `json:"total_page_views"`
	UniqueVisitors    UniqueVisitors  `json:"unique_visitors"`
	PageViews         PageViews       `json:"page_views"`
	TopPages          []PathCount     `json:"top_pages"`
	TopReferrers      []ReferrerCount `json:"top_referrers"`
	RecentVisitors    []VisitorRecord `json:"recent_visitors"`
	MaliciousVisitors []VisitorRecord `json:"malicious_visitors"`
	TotalMalicious    int             `json:"total_malicious"`
}

// SecurityReport is the blacklist and suspicious-activity view for the
// admin panel.
type SecurityReport struct {
	BlacklistedIPs     []string            `json:"blacklisted_ips"`
	AutoBlocked        []AutoBlockEvent    `json:"auto_blocked"`
	SuspiciousRequests []SuspiciousRequest `json:"suspicious_requests"`
}
