package validate

import "strings"

// DefaultPlaceholder is the token instruction files use for the
// resolved skill directory.
const DefaultPlaceholder = "$SKILL_DIR"

// Result is the verdict for a single command string.
// Suspicious implies invalid: a command that trips the blocklist is
// never valid, even if it would also match an allowlist rule.
type Result struct {
	Valid      bool
	Suspicious bool
	Reason     string
}

// Command is a fully classified command, including the form it would
// actually execute as after placeholder substitution.
type Command struct {
	Raw        string
	Resolved   string
	Valid      bool
	Suspicious bool
	Reason     string
}

// Validator classifies command strings against a ruleset.
// The zero value is not usable; construct with NewValidator.
type Validator struct {
	rules       *Ruleset
	placeholder string
}

// NewValidator creates a validator for the given ruleset.
// A nil ruleset selects DefaultRuleset.
func NewValidator(rules *Ruleset) *Validator {
	if rules == nil {
		rules = DefaultRuleset()
	}
	return &Validator{rules: rules, placeholder: DefaultPlaceholder}
}

// NewValidatorWithPlaceholder creates a validator that substitutes a
// custom placeholder token during Sanitize.
func NewValidatorWithPlaceholder(rules *Ruleset, placeholder string) *Validator {
	v := NewValidator(rules)
	if placeholder != "" {
		v.placeholder = placeholder
	}
	return v
}

// Validate classifies a raw command string. It is a pure function of
// its input: no filesystem access, no process execution.
func (v *Validator) Validate(raw string) Result {
	command := strings.TrimSpace(raw)
	if command == "" {
		return Result{Valid: false, Suspicious: false, Reason: "empty command"}
	}

	// Blocklist first: a dangerous shape rejects the command no matter
	// what else it matches.
	for _, rule := range v.rules.blocklist {
		if rule.Matches(command) {
			return Result{Valid: false, Suspicious: true, Reason: rule.Reason}
		}
	}

	// Compound "cd <path> && <rest>": every clause must validate on its
	// own. No short-circuit; a later bad clause is reported even when
	// clause one is a benign cd.
	if strings.HasPrefix(command, "cd ") && strings.Contains(command, "&&") {
		return v.validateCompound(command)
	}

	return v.checkAllowlist(command)
}

// validateCompound splits a chained command on && and ANDs the verdicts
// of all clauses.
func (v *Validator) validateCompound(command string) Result {
	clauses := strings.Split(command, "&&")
	verdict := Result{Valid: true}
	for _, clause := range clauses {
		res := v.Validate(strings.TrimSpace(clause))
		if res.Suspicious {
			verdict.Suspicious = true
		}
		if !res.Valid {
			verdict.Valid = false
			if verdict.Reason == "" {
				verdict.Reason = res.Reason
			}
		}
	}
	return verdict
}

func (v *Validator) checkAllowlist(command string) Result {
	for _, rule := range v.rules.allowlist {
		if rule.Matches(command) {
			return Result{Valid: true, Reason: rule.Reason}
		}
	}
	return Result{Valid: false, Suspicious: false, Reason: "no allowlist match"}
}

// Sanitize substitutes the placeholder token with the resolved skill
// path and validates the substituted form. Validation always operates
// on the command as it would actually execute; the unexpanded
// placeholder form is never what gets classified.
func (v *Validator) Sanitize(raw, resolvedPath string) Command {
	resolved := strings.ReplaceAll(raw, v.placeholder, resolvedPath)
	res := v.Validate(resolved)
	return Command{
		Raw:        raw,
		Resolved:   strings.TrimSpace(resolved),
		Valid:      res.Valid,
		Suspicious: res.Suspicious,
		Reason:     res.Reason,
	}
}
