package validate

import (
	"fmt"
	"regexp"
)

// RuleKind identifies which list a rule belongs to.
type RuleKind string

const (
	// RuleBlocklist rules reject a command outright and mark it suspicious.
	RuleBlocklist RuleKind = "blocklist"
	// RuleAllowlist rules describe the command shapes permitted to execute.
	RuleAllowlist RuleKind = "allowlist"
)

// Rule is a single compiled pattern with a human-readable reason.
type Rule struct {
	Kind    RuleKind
	Reason  string
	pattern *regexp.Regexp
}

// NewRule compiles a rule from a regular expression.
func NewRule(kind RuleKind, reason, expr string) (Rule, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Rule{}, fmt.Errorf("failed to compile %s rule %q: %w", kind, reason, err)
	}
	return Rule{Kind: kind, Reason: reason, pattern: re}, nil
}

// MustRule compiles a rule and panics on error. For use with the
// package-default rulesets, whose expressions are fixed at build time.
func MustRule(kind RuleKind, reason, expr string) Rule {
	rule, err := NewRule(kind, reason, expr)
	if err != nil {
		panic(err)
	}
	return rule
}

// Matches reports whether the command matches this rule's pattern.
func (r Rule) Matches(command string) bool {
	if r.pattern == nil {
		return false
	}
	return r.pattern.MatchString(command)
}

// Ruleset holds the block and allow rules a Validator evaluates.
// The blocklist is always evaluated before the allowlist so that a
// command can never pass because it incidentally matches both.
type Ruleset struct {
	blocklist []Rule
	allowlist []Rule
}

// NewRuleset builds a ruleset from rules of either kind.
func NewRuleset(rules ...Rule) *Ruleset {
	rs := &Ruleset{}
	for _, rule := range rules {
		switch rule.Kind {
		case RuleBlocklist:
			rs.blocklist = append(rs.blocklist, rule)
		case RuleAllowlist:
			rs.allowlist = append(rs.allowlist, rule)
		}
	}
	return rs
}

// Blocklist returns a copy of the blocklist rules.
func (rs *Ruleset) Blocklist() []Rule {
	out := make([]Rule, len(rs.blocklist))
	copy(out, rs.blocklist)
	return out
}

// Allowlist returns a copy of the allowlist rules.
func (rs *Ruleset) Allowlist() []Rule {
	out := make([]Rule, len(rs.allowlist))
	copy(out, rs.allowlist)
	return out
}

// DefaultRuleset returns the rules covering the command vocabulary the
// harness needs to run the skill's setup and test suites.
func DefaultRuleset() *Ruleset {
	return NewRuleset(
		// Dangerous structural shapes. Order matters only for which
		// reason is reported; any match rejects the command.
		MustRule(RuleBlocklist, "recursive or forced delete", `\brm\s+-[a-z]*[rf]`),
		MustRule(RuleBlocklist, "privilege escalation", `\b(sudo|doas)\b|\bsu\s+-`),
		MustRule(RuleBlocklist, "output redirected to /dev/null", `>\s*/dev/null`),
		MustRule(RuleBlocklist, "remote content piped to a shell", `\b(curl|wget)\b[^|]*\|\s*(ba|z|da)?sh\b`),
		MustRule(RuleBlocklist, "eval of quoted payload", `\beval\s+["']`),
		MustRule(RuleBlocklist, "command substitution", "\\$\\(|`"),
		MustRule(RuleBlocklist, "delete chained after another command", `(;|&&)\s*rm\b`),

		// The closed vocabulary permitted to execute.
		MustRule(RuleAllowlist, "node inline script", `^node\s+-e\s+["'].*["']\s*$`),
		MustRule(RuleAllowlist, "node run.js", `^node\s+run\.js(\s+.*)?$`),
		MustRule(RuleAllowlist, "node script from scripts dir", `^node\s+scripts/[\w.-]+\.js(\s+[\w./ "'-]*)?$`),
		MustRule(RuleAllowlist, "npm install", `^npm\s+install\s*$`),
		MustRule(RuleAllowlist, "npm run setup or test", `^npm\s+run\s+(setup|test)\s*$`),
		MustRule(RuleAllowlist, "read-only cat", `^cat(\s+[\w./~$-]+)+$`),
		MustRule(RuleAllowlist, "read-only ls", `^ls(\s+-[A-Za-z]+)*(\s+[\w./~$-]+)*$`),
		MustRule(RuleAllowlist, "bash test suite script", `^bash\s+scripts/test_[\w-]+\.sh\s*$`),
		MustRule(RuleAllowlist, "cd into skill dir", `^cd\s+(\$SKILL_DIR|[\w./~-]+)(\s*&&\s*.+)?$`),
	)
}
