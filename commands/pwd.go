package commands

// Pwd prints the current working directory.
func Pwd(env Env, args []string) (string, error) {
	pwd, err := env.OS().Getwd()
	if err != nil {
		return "", err
	}
	return pwd + "\n", nil
}

func init() {
	mustAddBuiltin("pwd", Pwd)
}
