// cmd/wayfinder/main.go
//
// This is the entry point for the wayfinder CLI.
// When you run `wayfinder` from any directory, this is what executes.
//
// Flow:
// 1. Load .env overrides, then flags
// 2. Initialize the .wayfinder folder
// 3. Launch the TUI

package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/fieldops/wayfinder/internal/catalog"
	"github.com/fieldops/wayfinder/internal/config"
	"github.com/fieldops/wayfinder/internal/tui"
)

func main() {
	// .env is optional; flags and config.yaml still apply without it.
	_ = godotenv.Load()

	role := flag.String("role", os.Getenv("WAYFINDER_ROLE"), "pin the operator role (worker, coordinator, office, sales, accounting, owner)")
	userRef := flag.String("user", os.Getenv("WAYFINDER_USER"), "identifier recorded on consultation entries")
	flag.Parse()

	if *role != "" && !catalog.ValidRole(catalog.RoleKey(*role)) {
		fmt.Fprintf(os.Stderr, "Unknown role %q. Known roles:", *role)
		for _, r := range catalog.Roles() {
			fmt.Fprintf(os.Stderr, " %s", r.Key)
		}
		fmt.Fprintln(os.Stderr)
		os.Exit(2)
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}

	if err := config.InitStateDir(cwd); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing .wayfinder directory: %v\n", err)
		os.Exit(1)
	}

	app, err := tui.NewApp(cwd,
		tui.WithRole(catalog.RoleKey(*role)),
		tui.WithUserRef(*userRef),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting wayfinder: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
