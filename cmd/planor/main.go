package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/pi2-study/planor/internal/browser"
	"github.com/pi2-study/planor/internal/preview"
	"github.com/pi2-study/planor/internal/tui"
	"github.com/pi2-study/planor/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const (
	defaultAPIURL = "https://api.planor.app"
	defaultWebURL = "https://planor.app"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	apiURL := os.Getenv("PLANOR_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	webURL := os.Getenv("PLANOR_WEB_URL")
	if webURL == "" {
		webURL = defaultWebURL
	}

	configDir, err := client.DefaultConfigDir()
	if err != nil {
		return err
	}
	store := client.NewFileStore(configDir)
	c := client.New(apiURL, store)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("planor " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "login":
			return runLogin(c)
		case "logout":
			return runLogout(c)
		case "dashboard":
			return browser.Open(webURL + "/dashboard/")
		default:
			printHelp()
			return fmt.Errorf("unknown command %q", os.Args[1])
		}
	}

	// Only force re-login on actual auth failures, not transient errors.
	if _, err := c.Me(context.Background()); err != nil {
		if client.IsSessionError(err) {
			printLoginHint()
			return nil
		}
		// Network/server error — launch the TUI anyway, it retries internally.
	}

	app := tui.NewApp(c, preview.NewStore(configDir), webURL)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func runLogin(c *client.Client) error {
	email, password, err := promptCredentials(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	if err := c.Login(context.Background(), email, password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	fmt.Println("Logged in.")
	return nil
}

// promptCredentials reads email (echoed) and password (hidden) from the
// terminal. The password falls back to plain line reading when stdin is
// not a terminal, which keeps scripted logins possible.
func promptCredentials(in *os.File, out *os.File) (string, string, error) {
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("read email: %w", err)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return "", "", fmt.Errorf("email is required")
	}

	fmt.Fprint(out, "password: ")
	var password string
	if term.IsTerminal(int(in.Fd())) {
		raw, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		password = string(raw)
	} else {
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return "", "", fmt.Errorf("password is required")
	}
	return email, password, nil
}

func runLogout(c *client.Client) error {
	if err := c.Logout(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	fmt.Println("Logged out.")
	return nil
}
