package commands

import (
	"fmt"

	"github.com/josephlewis42/pipesh/core/vos"
)

// Cd changes the shell's working directory. With no argument it goes to
// HOME, every "~" in the target is replaced with HOME.
func Cd(env Env, args []string) (string, error) {
	virtOS := env.OS()

	var target string
	switch len(args) {
	case 1:
		target = virtOS.Getenv(vos.EnvHome)
	case 2:
		target = args[1]
	default:
		return "", fmt.Errorf("%s: too many arguments", args[0])
	}

	if err := virtOS.Chdir(vos.ExpandTilde(virtOS, target)); err != nil {
		return "", fmt.Errorf("%s: %s: No such file or directory", args[0], target)
	}
	return "", nil
}

func init() {
	mustAddBuiltin("cd", Cd)
}
