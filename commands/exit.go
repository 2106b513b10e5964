package commands

// Exit asks the shell to quit, the shell flushes history before it does.
func Exit(env Env, args []string) (string, error) {
	return "", ErrExit
}

func init() {
	mustAddBuiltin("exit", Exit)
}
