package main

import (
	"context"
	"fmt"
	"os"

	"coursewatch-backend/cmd/coursewatch/commands"
	"coursewatch-backend/lib/telemetry"
)

func main() {
	telemetry.InitSlog(os.Getenv("COURSEWATCH_VERBOSE") != "")

	ctx := context.Background()
	tel, err := telemetry.SetupFromEnv(ctx, "coursewatch")
	if err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err == nil {
		defer tel.Shutdown(ctx)
		telemetry.InstrumentPerfStats(ctx)
	}

	commands.Execute(ctx)
}
