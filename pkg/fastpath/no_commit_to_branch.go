package fastpath

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/dlclark/regexp2"
)

func init() {
	register("no-commit-to-branch", Check{
		SupportsArgs: func(args []string) bool {
			for i := 0; i < len(args); i++ {
				switch args[i] {
				case "-b", "--branch", "-p", "--pattern":
					i++
				default:
					if !strings.HasPrefix(args[i], "-b=") &&
						!strings.HasPrefix(args[i], "--branch=") &&
						!strings.HasPrefix(args[i], "-p=") &&
						!strings.HasPrefix(args[i], "--pattern=") {
						return false
					}
				}
			}
			return true
		},
		Run: func(ctx context.Context, root string, _ []string, args []string) (int, []byte, error) {
			branches, patterns := parseNoCommitArgs(args)
			if len(branches) == 0 {
				branches = []string{"main", "master"}
			}

			branch, onBranch, err := currentSymbolicBranch(ctx, root)
			if err != nil {
				return 0, nil, err
			}
			if !onBranch {
				return 0, nil, nil
			}

			protected, err := branchIsProtected(branch, branches, patterns)
			if err != nil {
				return 0, nil, err
			}
			if protected {
				return 1, []byte(fmt.Sprintf("You are not allowed to commit to branch '%s'\n", branch)), nil
			}
			return 0, nil, nil
		},
	})
}

func parseNoCommitArgs(args []string) (branches, patterns []string) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-b" || a == "--branch":
			if i+1 < len(args) {
				i++
				branches = append(branches, args[i])
			}
		case strings.HasPrefix(a, "-b="):
			branches = append(branches, strings.TrimPrefix(a, "-b="))
		case strings.HasPrefix(a, "--branch="):
			branches = append(branches, strings.TrimPrefix(a, "--branch="))
		case a == "-p" || a == "--pattern":
			if i+1 < len(args) {
				i++
				patterns = append(patterns, args[i])
			}
		case strings.HasPrefix(a, "-p="):
			patterns = append(patterns, strings.TrimPrefix(a, "-p="))
		case strings.HasPrefix(a, "--pattern="):
			patterns = append(patterns, strings.TrimPrefix(a, "--pattern="))
		}
	}
	return branches, patterns
}

// currentSymbolicBranch reports the branch HEAD currently points to. When
// HEAD is detached, onBranch is false and callers should treat that as
// nothing-to-protect, mirroring the upstream hook's behavior.
func currentSymbolicBranch(ctx context.Context, root string) (branch string, onBranch bool, err error) {
	cmd := exec.CommandContext(ctx, "git", "symbolic-ref", "HEAD")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return "", false, nil //nolint:nilerr // detached HEAD, nothing to check
	}
	ref := strings.TrimSpace(string(out))
	return strings.TrimPrefix(ref, "refs/heads/"), true, nil
}

// branchIsProtected matches branch against the literal branch list first,
// then falls back to the (rarer) fancy-regex patterns, which support
// lookaround syntax the standard library's regexp cannot express.
func branchIsProtected(branch string, branches, patterns []string) (bool, error) {
	for _, b := range branches {
		if b == branch {
			return true, nil
		}
	}
	for _, p := range patterns {
		re, err := regexp2.Compile(p, regexp2.None)
		if err != nil {
			return false, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		matched, err := re.MatchString(branch)
		if err != nil {
			continue
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
