// Command dwm starts the window manager: parse flags, bootstrap
// logging, open the X connection, scan for already-mapped windows and
// enter the event loop — dwm.c's main().
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aerkiaga/dwm/wm"
	"github.com/phsym/console-slog"
	flag "github.com/spf13/pflag"
)

func main() {
	var (
		showVersion = flag.BoolP("version", "v", false, "print version and exit")
		debug       = flag.BoolP("debug", "d", false, "enable debug logging")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("dwm-%s\n", wm.Version)
		os.Exit(0)
	}
	if len(flag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "usage: dwm [-v] [-d]\n")
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))

	w, err := wm.New(wm.DefaultConfig(), slog.Default())
	if err != nil {
		die("%v", err)
	}
	defer w.Close()

	w.Run()
}

// die mirrors dwm.c's die(): log and exit nonzero, no cleanup.
func die(format string, args ...any) {
	slog.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}
