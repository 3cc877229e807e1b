package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/law-makers/nutricrawl/internal/cli"
	"github.com/law-makers/nutricrawl/internal/ui"
	"github.com/rs/zerolog/log"
)

func main() {
	// First signal cancels the run so partial results are saved; a second one exits
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()

	err := cli.Execute(ctx)
	stop()
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		log.Warn().Msg("Interrupted")
		os.Exit(130)
	}
	fmt.Fprintf(os.Stderr, "%s %v\n", ui.Error("error:"), err)
	os.Exit(1)
}
