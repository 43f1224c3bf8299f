package classifier

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bcaldwell/statementimporter/pkg/statement"
)

// Rule decides whether a row belongs to a category and which tag it earns.
// KeywordRule and PrefixRule are the two kinds of rule.
type Rule interface {
	Category() statement.Category
	Match(ctx Context) (tag string, ok bool)
}

// KeywordRule matches a keyword anywhere in the last description part.
// The matched keyword becomes the tag.
type KeywordRule struct {
	category statement.Category
	keywords *regexp.Regexp
}

func NewKeywordRule(category statement.Category, keywords string) KeywordRule {
	return KeywordRule{category: category, keywords: regexp.MustCompile(keywords)}
}

func (r KeywordRule) Category() statement.Category {
	return r.category
}

func (r KeywordRule) Match(ctx Context) (string, bool) {
	loc := r.keywords.FindStringIndex(ctx.LastPart())
	if loc == nil {
		return "", false
	}
	return ctx.LastPart()[loc[0]:loc[1]], true
}

// PrefixRule matches when the last description part starts with a category
// hint word ("food biryani"), in which case the free text after the hint is
// the tag. Otherwise it falls back to its keywords.
type PrefixRule struct {
	KeywordRule
	prefix *regexp.Regexp
}

func NewPrefixRule(category statement.Category, prefix, keywords string) PrefixRule {
	return PrefixRule{
		KeywordRule: NewKeywordRule(category, keywords),
		prefix:      regexp.MustCompile(prefix),
	}
}

func (r PrefixRule) Match(ctx Context) (string, bool) {
	last := strings.TrimSpace(ctx.LastPart())
	if r.prefix.MatchString(last) {
		_, rest, _ := strings.Cut(last, " ")
		return strings.TrimSpace(rest), true
	}
	return r.KeywordRule.Match(ctx)
}

// RefPattern builds a pattern around a reference number found earlier in the row.
type RefPattern func(ref string) (*regexp.Regexp, error)

// RefTemplate returns a RefPattern that substitutes the quoted reference for
// the single %s verb in template.
func RefTemplate(template string) RefPattern {
	return func(ref string) (*regexp.Regexp, error) {
		return regexp.Compile(fmt.Sprintf(template, regexp.QuoteMeta(ref)))
	}
}

// RuleSet holds everything bank specific the classifier needs. Category rules
// are tested in order and the first match wins.
type RuleSet struct {
	// ModeTable maps vendor channel spellings to modes
	ModeTable map[string]statement.Mode
	// InterestSentinel is the whole description of the monthly interest credit
	InterestSentinel string
	// EMIPattern matches single part EMI descriptions, its first group is the ref
	EMIPattern *regexp.Regexp
	// RefTokens maps a mode to the pattern its reference part must match.
	// Modes missing here use DefaultRefToken. Patterns are tested against each
	// whole trimmed part, so anchor them: an unanchored pattern would also pick
	// a reference out of a longer part like "UPI400230892772X".
	RefTokens       map[statement.Mode]*regexp.Regexp
	DefaultRefToken *regexp.Regexp

	Salary  *regexp.Regexp
	Mandate *regexp.Regexp

	ATM  RefPattern
	NEFT RefPattern
	IMPS RefPattern

	// Annotation guards the annotation decoder for upi rows
	Annotation *regexp.Regexp

	Categories []Rule
}
