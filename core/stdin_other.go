//go:build !unix

package core

import "io"

func newTerminalStdin(r io.Reader) terminalStdin {
	return passthroughStdin{r}
}
