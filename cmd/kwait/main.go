package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/MacroPower/kwait/cmd/kwait/commands"
)

const (
	cmdName = "kwait"

	shortDesc = "Blocking syscall simulator."
	longDesc  = `kwait runs simulated user processes against a kernel that provides
sleeping mutexes, tick-based sleep, uptime and nice.

Workloads are described in YAML scenario files. Each process talks to the
kernel only through system calls, and the run report shows what every process
observed: mutex acquisitions, completed and interrupted sleeps, and any
mutual exclusion violations.
`
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	cmd := commands.NewRootCmd(cmdName, shortDesc, longDesc)

	err := cmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimLeft(err.Error(), "\n"))
		os.Exit(1)
	}
}
