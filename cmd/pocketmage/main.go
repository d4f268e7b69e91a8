// Package main provides pocketmage, the PocketMage notetaker apps on a
// desktop terminal.
package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/andymcblane/EinkPDA/internal/cli"
)

func main() {
	environ := os.Environ()
	env := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	os.Exit(cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args, env, sigCh))
}
