package security

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/askcmd/assets"
	"github.com/doeshing/askcmd/internal/domain"
	"github.com/doeshing/askcmd/internal/pkg/filesystem"
	"github.com/doeshing/askcmd/internal/ports"
)

// Classifier screens commands against an ordered table of danger rules.
// Every rule is evaluated independently and all matches are accumulated;
// there is no short-circuit, so the verdict names every matching rule.
type Classifier struct {
	rules []compiledRule
}

type compiledRule struct {
	rule Rule
	re   *regexp.Regexp
}

// Rule is one danger pattern in the YAML rule table.
type Rule struct {
	ID      string `yaml:"id"`
	Pattern string `yaml:"pattern"`
	Message string `yaml:"message"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// NewClassifier loads the rule table from the given path, falling back to
// the embedded defaults when the file does not exist.
func NewClassifier(path string) (*Classifier, error) {
	rules, err := loadRules(path)
	if err != nil {
		return nil, err
	}
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
		}
		compiled = append(compiled, compiledRule{rule: rule, re: re})
	}
	return &Classifier{rules: compiled}, nil
}

// Classify implements ports.SecurityService.
func (c *Classifier) Classify(command string) domain.Verdict {
	var verdict domain.Verdict
	for _, entry := range c.rules {
		if entry.re.MatchString(command) {
			verdict.MatchedRules = append(verdict.MatchedRules, entry.rule.ID)
			verdict.Reasons = append(verdict.Reasons, entry.rule.Message)
		}
	}
	return verdict
}

// Rules returns the loaded table in evaluation order.
func (c *Classifier) Rules() []Rule {
	rules := make([]Rule, 0, len(c.rules))
	for _, entry := range c.rules {
		rules = append(rules, entry.rule)
	}
	return rules
}

func loadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(filesystem.Expand(path))
	if err != nil {
		// No override on disk: use the embedded defaults.
		data = assets.DefaultRulesYAML
	}
	var file RulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if len(file.Rules) == 0 {
		if err := yaml.Unmarshal(assets.DefaultRulesYAML, &file); err != nil {
			return nil, err
		}
	}
	return file.Rules, nil
}

var _ ports.SecurityService = (*Classifier)(nil)
