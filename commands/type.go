package commands

import (
	"fmt"
	"strings"

	"github.com/josephlewis42/pipesh/core/vos"
)

// Type describes how each name would be run: as a builtin or as the first
// matching executable on the search path.
func Type(env Env, args []string) (string, error) {
	var out strings.Builder
	for _, name := range args[1:] {
		if IsBuiltin(name) {
			fmt.Fprintf(&out, "%s is a shell builtin\n", name)
			continue
		}

		if path, err := vos.LookPath(env.OS(), name); err == nil {
			fmt.Fprintf(&out, "%s is %s\n", name, path)
		} else {
			fmt.Fprintf(&out, "%s: not found\n", name)
		}
	}
	return out.String(), nil
}

func init() {
	mustAddBuiltin("type", Type)
}
