package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/sipgo/internal/calculation"
	"github.com/rgehrsitz/sipgo/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: sipgo-tui <plan-file>")
		os.Exit(1)
	}
	configPath := os.Args[1]

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("Error: Plan file not found: %s\n", configPath)
		os.Exit(1)
	}

	model := tui.NewModel(configPath, calculation.NewCalculationEngine())

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
