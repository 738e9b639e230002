package services

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pdia/sitegate/internal/metrics"
	"github.com/pdia/sitegate/internal/models"
	"github.com/pdia/sitegate/internal/store"
)

// recentVisitorCap and recentMaliciousCap bound the raw record slices
// included in a stats report for manual inspection.
const (
	recentVisitorCap   = 500
	recentMaliciousCap = 100
)

// staticAssetExtensions are path suffixes excluded from visitor logging.
var staticAssetExtensions = []string{
	".js", ".css", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico",
	".woff", ".woff2", ".webp", ".ttf", ".eot", ".otf", ".map",
}

// PageView carries the request fields the visitor log records.
type PageView struct {
	IP            string
	UserAgent     string
	Path          string
	Referrer      string
	Method        string
	IsMalicious   bool
	IsBlacklisted bool
}

// AnalyticsService owns the visitor log and computes traffic reports
// from it. Visitor IPs are stored as salted SHA-256 hashes: unique
// counts still work, raw addresses never land on disk.
type AnalyticsService struct {
	store  *store.VisitorStore
	salt   string
	logger *slog.Logger
	now    func() time.Time
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(s *store.VisitorStore, salt string, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{
		store:  s,
		salt:   salt,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock overrides the wall clock. Tests only.
func (s *AnalyticsService) SetClock(now func() time.Time) {
	s.now = now
}

// ShouldRecord reports whether a path belongs in the visitor log. API
// calls, uploads, and static assets are traffic noise, not page views.
func ShouldRecord(path string) bool {
	if strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/uploads/") {
		return false
	}
	lower := strings.ToLower(path)
	for _, ext := range staticAssetExtensions {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}
	return true
}

// Record appends a page view to the visitor log. Non-qualifying paths
// are silently skipped.
func (s *AnalyticsService) Record(view PageView) error {
	if !ShouldRecord(view.Path) {
		return nil
	}

	userAgent := view.UserAgent
	if userAgent == "" {
		userAgent = "unknown"
	}
	referrer := view.Referrer
	if referrer == "" {
		referrer = "direct"
	}

	err := s.store.Append(models.VisitorRecord{
		Timestamp:     s.now(),
		IPHash:        s.hashIP(view.IP),
		UserAgent:     userAgent,
		Path:          view.Path,
		Referrer:      referrer,
		Method:        view.Method,
		IsMalicious:   view.IsMalicious,
		IsBlacklisted: view.IsBlacklisted,
	})
	if err != nil {
		return err
	}
	metrics.VisitorsRecorded.Inc()
	return nil
}

// Stats computes the traffic report from the current visitor log.
func (s *AnalyticsService) Stats() models.StatsReport {
	visitors := s.store.All()
	now := s.now()

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := now.Add(-7 * 24 * time.Hour)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var report models.StatsReport
	report.TotalPageViews = len(visitors)

	uniqueToday := make(map[string]struct{})
	uniqueWeek := make(map[string]struct{})
	uniqueMonth := make(map[string]struct{})
	uniqueAll := make(map[string]struct{})
	pageCounts := make(map[string]int)
	referrerCounts := make(map[string]int)
	var malicious []models.VisitorRecord

	for _, v := range visitors {
		uniqueAll[v.IPHash] = struct{}{}
		if !v.Timestamp.Before(today) {
			uniqueToday[v.IPHash] = struct{}{}
			report.PageViews.Today++
		}
		if !v.Timestamp.Before(weekStart) {
			uniqueWeek[v.IPHash] = struct{}{}
			report.PageViews.Week++
		}
		if !v.Timestamp.Before(monthStart) {
			uniqueMonth[v.IPHash] = struct{}{}
			report.PageViews.Month++
		}

		pageCounts[v.Path]++
		if host := referrerHost(v.Referrer); host != "" {
			referrerCounts[host]++
		}
		if v.IsMalicious || v.IsBlacklisted {
			malicious = append(malicious, v)
		}
	}

	report.UniqueVisitors = models.UniqueVisitors{
		Today:   len(uniqueToday),
		Week:    len(uniqueWeek),
		Month:   len(uniqueMonth),
		AllTime: len(uniqueAll),
	}
	report.TopPages = topPages(pageCounts, 10)
	report.TopReferrers = topReferrers(referrerCounts, 10)
	report.RecentVisitors = newestFirst(visitors, recentVisitorCap)
	report.MaliciousVisitors = newestFirst(malicious, recentMaliciousCap)
	report.TotalMalicious = len(malicious)
	return report
}

// hashIP derives the stored visitor identity from an IP address.
// Truncated to 16 hex chars; plenty for dedup, useless for reversal.
func (s *AnalyticsService) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// referrerHost extracts the hostname from a referrer value. Direct
// traffic and unparsable URLs yield "".
func referrerHost(referrer string) string {
	if referrer == "" || referrer == "direct" {
		return ""
	}
	u, err := url.Parse(referrer)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return u.Hostname()
}

func topPages(counts map[string]int, n int) []models.PathCount {
	out := make([]models.PathCount, 0, len(counts))
	for path, count := range counts {
		out = append(out, models.PathCount{Path: path, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Path < out[j].Path
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func topReferrers(counts map[string]int, n int) []models.ReferrerCount {
	out := make([]models.ReferrerCount, 0, len(counts))
	for referrer, count := range counts {
		out = append(out, models.ReferrerCount{Referrer: referrer, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Referrer < out[j].Referrer
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func newestFirst(records []models.VisitorRecord, limit int) []models.VisitorRecord {
	if len(records) > limit {
		records = records[len(records)-limit:]
	}
	out := make([]models.VisitorRecord, len(records))
	for i, rec := range records {
		out[len(records)-1-i] = rec
	}
	return out
}
