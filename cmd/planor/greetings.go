package main

import (
	"fmt"
	"math/rand"

	"github.com/charmbracelet/lipgloss"
)

var loginHints = [...]string{
	"Your week is a blank grid. It won't plan itself.",
	"Somewhere, a study session is scheduled for nobody. It could be yours.",
	"The planner remembers everything. Right now it remembers nothing about you.",
	"Monday through Sunday, seven empty columns. Log in and fill one.",
	"Planned minutes this week: unknown. That's worse than zero.",
	"Your courses are waiting. They are very patient. You shouldn't be.",
}

func printHelp() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6d8dfa")).
		Bold(true).
		Render("P L A N O R")

	sub := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("your study week, one terminal at a time")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"planor", "Open the planner (interactive TUI)"},
		{"planor login", "Authenticate with email and password"},
		{"planor logout", "Clear your session"},
		{"planor dashboard", "Open the web dashboard"},
		{"planor --version", "Show version"},
		{"planor help", "You are here"},
	}

	fmt.Printf("\n  %s\n\n  %s\n\n  Commands:\n", title, sub)
	for _, c := range commands {
		fmt.Printf("    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}
}

func printLoginHint() {
	msg := loginHints[rand.Intn(len(loginHints))]

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6d8dfa")).
		Bold(true).
		Render("PLANOR")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(msg)

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("To get started: planor login")

	fmt.Printf("\n%s\n\n%s\n\n%s\n\n", title, quote, hint)
}
