// Package validate classifies shell commands extracted from skill
// instruction files as safe or unsafe to execute.
//
// Classification is purely structural: a fixed blocklist of dangerous
// shapes is checked first, then a closed allowlist of the small command
// vocabulary the harness needs (node, npm, bash test scripts, read-only
// cat/ls, cd). Anything that matches neither is rejected by default.
//
// The package performs no I/O and spawns no processes; callers are
// responsible for checking the result before executing a command.
package validate
