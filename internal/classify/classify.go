// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify maps a search record to the academic-paper section
// labels its title and snippet imply, using fixed keyword rules.
//
// Classification is multi-label: every rule is evaluated independently and
// a record may match zero, one, or many labels. A Classifier holds no
// mutable state and is safe for concurrent use.
package classify

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/serp-analyzer/internal/taxonomy"
	"github.com/pdiddy/serp-analyzer/pkg/types"
)

// Rule fires its label when the lower-cased record text contains any of
// its keywords. WholeWord rules only match keywords bounded by non-word
// characters on both sides.
type Rule struct {
	Label     taxonomy.Label
	Keywords  []string
	WholeWord bool
}

// DefaultRules is the reference rule table, one rule per label.
var DefaultRules = []Rule{
	{Label: taxonomy.Abstract, Keywords: []string{"abstract"}, WholeWord: true},
	{Label: taxonomy.Introduction, Keywords: []string{"introduction", "background"}},
	{Label: taxonomy.RelatedWork, Keywords: []string{"related work", "literature review", "prior work", "previous work"}},
	{Label: taxonomy.Methodology, Keywords: []string{"methodolog", "method", "approach", "framework"}},
	{Label: taxonomy.Architecture, Keywords: []string{"architecture", "model", "network", "design"}},
	{Label: taxonomy.Experiments, Keywords: []string{"experiment", "setup", "evaluation"}},
	{Label: taxonomy.Results, Keywords: []string{"result", "finding", "performance", "accuracy"}},
	{Label: taxonomy.Discussion, Keywords: []string{"discussion", "analysis", "interpretation"}},
	{Label: taxonomy.Conclusion, Keywords: []string{"conclusion", "summary"}},
	{Label: taxonomy.References, Keywords: []string{"reference", "citation", "bibliograph"}},
	{Label: taxonomy.FutureWork, Keywords: []string{"future work", "future direction", "future research"}},
	{Label: taxonomy.Limitations, Keywords: []string{"limitation", "constraint", "challenge"}},
	{Label: taxonomy.Datasets, Keywords: []string{"dataset", "data collection", "benchmark"}},
	{Label: taxonomy.Implementation, Keywords: []string{"implementation", "code", "detail"}},
	{Label: taxonomy.Contributions, Keywords: []string{"contribution", "novel"}},
	{Label: taxonomy.AblationStudy, Keywords: []string{"ablation", "component analysis"}},
	{Label: taxonomy.Baselines, Keywords: []string{"baseline", "comparison", "state-of-the-art"}},
	{Label: taxonomy.TrainingDetails, Keywords: []string{"hyperparameter", "tuning", "training detail"}},
}

// LabelSet is the set of labels detected in one record.
type LabelSet map[taxonomy.Label]struct{}

// Has reports whether l is in the set.
func (s LabelSet) Has(l taxonomy.Label) bool {
	_, ok := s[l]
	return ok
}

// Sorted returns the labels in ascending name order.
func (s LabelSet) Sorted() []taxonomy.Label {
	out := make([]taxonomy.Label, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type compiledRule struct {
	label    taxonomy.Label
	keywords []string
	patterns []*regexp.Regexp
}

func (r compiledRule) match(text string) bool {
	if r.patterns != nil {
		for _, p := range r.patterns {
			if p.MatchString(text) {
				return true
			}
		}
		return false
	}
	for _, kw := range r.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Classifier applies an ordered rule table to records.
type Classifier struct {
	rules []compiledRule
}

// New compiles rules into a Classifier. Keywords are lower-cased; empty
// keywords are ignored so they cannot match every record.
func New(rules ...Rule) *Classifier {
	c := &Classifier{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		cr := compiledRule{label: r.Label}
		for _, kw := range r.Keywords {
			kw = strings.ToLower(kw)
			if kw == "" {
				continue
			}
			if r.WholeWord {
				cr.patterns = append(cr.patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
			} else {
				cr.keywords = append(cr.keywords, kw)
			}
		}
		c.rules = append(c.rules, cr)
	}
	return c
}

// Default returns a Classifier over DefaultRules.
func Default() *Classifier {
	return New(DefaultRules...)
}

// Classify returns the labels detected in record. A record with a blank
// title and snippet yields an empty set.
func (c *Classifier) Classify(record types.TextRecord) LabelSet {
	return c.ClassifyText(record.Text())
}

// ClassifyText classifies raw text with the same rules as Classify.
func (c *Classifier) ClassifyText(text string) LabelSet {
	set := make(LabelSet)
	text = strings.ToLower(text)
	if strings.TrimSpace(text) == "" {
		return set
	}
	for _, r := range c.rules {
		if r.match(text) {
			set[r.label] = struct{}{}
		}
	}
	return set
}
