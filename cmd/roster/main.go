// Command roster manages a persisted list of people from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"roster/pkg/domain"
)

var exitFunc = os.Exit

func main() {
	code := cli(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	exitFunc(code)
}

// cli runs one command and returns the process exit code: 0 on success, 2
// for rejected input, 1 for anything else.
func cli(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := newApp(stdin, stdout, stderr)
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if a.showMetrics {
		if mErr := writeMetrics(stderr, a.registry); mErr != nil && err == nil {
			err = mErr
		}
	}
	if err == nil {
		return 0
	}
	if _, writeErr := fmt.Fprintln(stderr, newStyles(stderr).err.Render("error: "+err.Error())); writeErr != nil {
		return 1
	}
	if domain.IsValidation(err) || errors.Is(err, errUsage) {
		return 2
	}
	return 1
}
