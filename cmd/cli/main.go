package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/snapcart/storefront/pkg/client"
)

const defaultBaseURL = "http://localhost:8000"

func main() {
	baseURL := flag.String("server", envOr("SNAPCART_SERVER", defaultBaseURL), "storefront server base URL")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	tokenPath, err := client.DefaultTokenPath()
	if err != nil {
		log.Fatalf("cannot resolve token path: %v", err)
	}

	api := client.NewAPIClient(*baseURL, nil)
	store := client.NewFileTokenStore(tokenPath)
	controller := client.NewSessionController(api, store, stdoutNotifier{}, confirmOnStdin)

	ctx := context.Background()

	switch flag.Arg(0) {
	case "login":
		runLogin(ctx, controller)
	case "logout":
		controller.Logout()
	case "whoami":
		runWhoami(ctx, controller)
	case "passwd":
		runPasswd(ctx, controller)
	case "delete-account":
		if err := controller.DeleteAccount(ctx); err != nil {
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func runLogin(ctx context.Context, controller *client.SessionController) {
	username := prompt("Username: ")
	password := promptSecret("Password: ")
	controller.Login(ctx, username, password, "Buyer")
	if !controller.Session().IsAuthenticated {
		os.Exit(1)
	}
}

func runWhoami(ctx context.Context, controller *client.SessionController) {
	controller.Hydrate(ctx)
	session := controller.Session()
	if !session.IsAuthenticated {
		fmt.Println("not logged in")
		os.Exit(1)
	}
	p := session.Profile
	fmt.Printf("%s <%s> (%s)\n", p.Username, p.Email, p.Role)
}

func runPasswd(ctx context.Context, controller *client.SessionController) {
	current := promptSecret("Current password: ")
	next := promptSecret("New password: ")
	if err := controller.UpdatePassword(ctx, current, next); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("password updated successfully")
}

type stdoutNotifier struct{}

func (stdoutNotifier) Success(message string) { fmt.Println(message) }
func (stdoutNotifier) Error(message string)   { fmt.Fprintln(os.Stderr, message) }

func confirmOnStdin(promptText string) bool {
	fmt.Printf("%s [y/N]: ", promptText)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func prompt(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptSecret(label string) string {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: snapcart [-server URL] <command>

commands:
  login           authenticate and persist the session token
  logout          clear the persisted session token
  whoami          show the current profile
  passwd          change the account password
  delete-account  delete the account (asks for confirmation)
`)
}
