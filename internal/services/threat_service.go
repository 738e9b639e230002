package services

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/pdia/sitegate/internal/models"
	"github.com/pdia/sitegate/internal/store"
	"github.com/pdia/sitegate/pkg/logger"
)

// ThreatService classifies requests against the malicious-pattern rule
// table, maintains the IP blacklist, and feeds the suspicious-activity
// log. First matching rule wins; there is no scoring.
type ThreatService struct {
	blacklist   *store.BlacklistStore
	suspicious  *store.SuspiciousStore
	pathRules   []compiledRule
	botRules    []compiledRule
	allowedBots *regexp.Regexp
	logger      *slog.Logger
	audit       *logger.AuditLogger
	now         func() time.Time
}

// NewThreatService creates a ThreatService from a rule set.
func NewThreatService(
	blacklist *store.BlacklistStore,
	suspicious *store.SuspiciousStore,
	rules RuleSet,
	log *slog.Logger,
	audit *logger.AuditLogger,
) (*ThreatService, error) {
	pathRules, err := compileRules(rules.PathPatterns)
	if err != nil {
		return nil, err
	}
	botRules, err := compileRules(rules.BotPatterns)
	if err != nil {
		return nil, err
	}
	allowedBots, err := regexp.Compile(rules.AllowedBots)
	if err != nil {
		return nil, fmt.Errorf("compile allowed bots pattern: %w", err)
	}

	return &ThreatService{
		blacklist:   blacklist,
		suspicious:  suspicious,
		pathRules:   pathRules,
		botRules:    botRules,
		allowedBots: allowedBots,
		logger:      log,
		audit:       audit,
		now:         time.Now,
	}, nil
}

// SetClock overrides the wall clock. Tests only.
func (s *ThreatService) SetClock(now func() time.Time) {
	s.now = now
}

// Classify checks the path and user-agent against the rule table. Known
// search-engine crawlers are exempt from the bot rules; nothing exempts
// a path from the path rules.
func (s *ThreatService) Classify(path, userAgent string) models.Classification {
	lowerPath := strings.ToLower(path)
	for _, rule := range s.pathRules {
		if rule.re.MatchString(lowerPath) {
			return models.Classification{
				Malicious: true,
				Reason:    "malicious url pattern: " + rule.category,
			}
		}
	}

	lowerUA := strings.ToLower(userAgent)
	if lowerUA != "" && !s.allowedBots.MatchString(lowerUA) {
		for _, rule := range s.botRules {
			if rule.re.MatchString(lowerUA) {
				return models.Classification{
					Malicious: true,
					Reason:    "suspicious user agent: " + rule.category,
				}
			}
		}
	}

	return models.Classification{}
}

// RecordAndBlock logs a detected threat and blacklists the offending
// IP. Blacklisting an already-listed IP is a no-op, so repeated hits
// from one scanner do not duplicate audit entries.
func (s *ThreatService) RecordAndBlock(ip, path, userAgent, reason string) error {
	now := s.now()

	if err := s.suspicious.Append(models.SuspiciousRequest{
		Timestamp: now,
		IP:        ip,
		Path:      path,
		UserAgent: userAgent,
		Reason:    reason,
	}); err != nil {
		return fmt.Errorf("log suspicious activity: %w", err)
	}

	added, err := s.blacklist.Add(ip, store.AutoBlockReason, now)
	if err != nil {
		return fmt.Errorf("blacklist ip: %w", err)
	}
	if added {
		s.audit.Log(logger.SecurityEvent{
			EventType: "ip_blacklisted",
			IPAddress: ip,
			Path:      path,
			UserAgent: userAgent,
			Success:   false,
			Reason:    reason,
		})
	}
	return nil
}

// IsBlacklisted reports whether ip is on the blacklist.
func (s *ThreatService) IsBlacklisted(ip string) bool {
	return s.blacklist.Contains(ip)
}

// Report returns the current blacklist and suspicious-activity view for
// the admin panel, newest suspicious entries first.
func (s *ThreatService) Report() models.SecurityReport {
	ips, events := s.blacklist.Snapshot()
	requests := s.suspicious.All()
	reversed := make([]models.SuspiciousRequest, len(requests))
	for i, req := range requests {
		reversed[len(requests)-1-i] = req
	}
	return models.SecurityReport{
		BlacklistedIPs:     ips,
		AutoBlocked:        events,
		SuspiciousRequests: reversed,
	}
}
