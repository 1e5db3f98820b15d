package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/definegen/internal/cli"
	"github.com/vvka-141/definegen/pkg/define"
)

func main() {
	os.Exit(run())
}

// run converts the command outcome, including a panic, into an exit code.
func run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			code = define.ExitPanic
		}
	}()

	if os.Getenv("DEFINEGEN_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}
	return define.ExitCodeForError(cli.Execute())
}
