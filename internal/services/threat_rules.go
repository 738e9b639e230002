package services

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
)

// Rule is one detection pattern in the ordered rule table. Patterns are
// matched case-insensitively against the lower-cased path or user-agent;
// the category names the threat class for audit records.
type Rule struct {
	Pattern  string `json:"pattern"`
	Category string `json:"category"`
}

// RuleSet is the full detection configuration. It can be loaded from a
// JSON file so rules are extendable without a redeploy; the built-in
// defaults cover the probes a small CMS-backed site actually sees.
type RuleSet struct {
	PathPatterns []Rule `json:"path_patterns"`
	BotPatterns  []Rule `json:"bot_patterns"`
	AllowedBots  string `json:"allowed_bots"`
}

// DefaultRuleSet returns the built-in detection rules.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		PathPatterns: []Rule{
			{Pattern: `wp-admin`, Category: "wordpress probe"},
			{Pattern: `wordpress`, Category: "wordpress probe"},
			{Pattern: `wp-content`, Category: "wordpress probe"},
			{Pattern: `wp-includes`, Category: "wordpress probe"},
			{Pattern: `wp-login`, Category: "wordpress probe"},
			{Pattern: `xmlrpc\.php`, Category: "wordpress probe"},
			{Pattern: `\.php$`, Category: "php script probe"},
			{Pattern: `phpmyadmin`, Category: "phpmyadmin probe"},
			{Pattern: `admin\.php`, Category: "admin script probe"},
			{Pattern: `config\.php`, Category: "config probe"},
			{Pattern: `setup-config`, Category: "installer probe"},
			{Pattern: `install\.php`, Category: "installer probe"},
			{Pattern: `\.env$`, Category: "dotfile probe"},
			{Pattern: `\.git`, Category: "dotfile probe"},
			{Pattern: `\.sql$`, Category: "sql dump probe"},
			{Pattern: `backup`, Category: "backup probe"},
			{Pattern: `shell`, Category: "shell injection"},
			{Pattern: `eval\(`, Category: "code injection"},
			{Pattern: `base64`, Category: "code injection"},
		},
		BotPatterns: []Rule{
			{Pattern: `bot`, Category: "generic bot"},
			{Pattern: `crawler`, Category: "generic bot"},
			{Pattern: `spider`, Category: "generic bot"},
			{Pattern: `scraper`, Category: "scraper"},
			{Pattern: `curl`, Category: "cli client"},
			{Pattern: `wget`, Category: "cli client"},
			{Pattern: `python`, Category: "script client"},
			{Pattern: `scanner`, Category: "scanner"},
			{Pattern: `nikto`, Category: "scanner"},
			{Pattern: `nmap`, Category: "scanner"},
			{Pattern: `masscan`, Category: "scanner"},
			{Pattern: `sqlmap`, Category: "scanner"},
		},
		AllowedBots: `googlebot|bingbot|slurp|duckduckbot|baiduspider|yandexbot|facebookexternalhit`,
	}
}

// LoadRuleSet reads a RuleSet from a JSON file. An empty path yields
// the defaults.
func LoadRuleSet(path string) (RuleSet, error) {
	if path == "" {
		return DefaultRuleSet(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("read rules file: %w", err)
	}
	var rules RuleSet
	if err := json.Unmarshal(raw, &rules); err != nil {
		return RuleSet{}, fmt.Errorf("decode rules file: %w", err)
	}
	if rules.AllowedBots == "" {
		rules.AllowedBots = DefaultRuleSet().AllowedBots
	}
	return rules, nil
}

type compiledRule struct {
	re       *regexp.Regexp
	category string
}

func compileRules(rules []Rule) ([]compiledRule, error) {
	out := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", rule.Pattern, err)
		}
		out = append(out, compiledRule{re: re, category: rule.Category})
	}
	return out, nil
}
