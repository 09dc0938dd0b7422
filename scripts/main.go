package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/socialdesk/socialdesk/scripts/internal"
)

// Command represents a script that can be run
type Command struct {
	Name        string
	Description string
	Run         func() error
}

var commands = []Command{
	{
		Name:        "seed-plans",
		Description: "Create or update plans and their limits from a JSON file",
		Run:         internal.SeedPlans,
	},
	{
		Name:        "grant-super-admin",
		Description: "Give an existing user back office access",
		Run:         internal.GrantSuperAdmin,
	},
	{
		Name:        "generate-encryption-key",
		Description: "Print a random key for secrets.encryption_key",
		Run:         internal.GenerateEncryptionKey,
	},
}

func main() {
	// Define command line flags
	var (
		listCommands bool
		cmdName      string
		email        string
		plansFile    string
	)

	flag.BoolVar(&listCommands, "list", false, "List all available commands")
	flag.StringVar(&cmdName, "cmd", "", "Command to run")
	flag.StringVar(&email, "user-email", "", "Email of the user to operate on")
	flag.StringVar(&plansFile, "plans-file", "", "Path to plans JSON file")

	flag.Parse()

	if listCommands {
		fmt.Println("Available commands:")
		for _, cmd := range commands {
			fmt.Printf("  %-25s %s\n", cmd.Name, cmd.Description)
		}
		return
	}

	if cmdName == "" {
		log.Fatal("Please specify a command to run using -cmd flag. Use -list to see available commands.")
	}

	// Set command-specific environment variables
	if email != "" {
		os.Setenv("USER_EMAIL", email)
	}
	if plansFile != "" {
		os.Setenv("PLANS_FILE", plansFile)
	}

	// Find and run the command
	for _, cmd := range commands {
		if cmd.Name == cmdName {
			if err := cmd.Run(); err != nil {
				log.Fatalf("Error running command %s: %v", cmdName, err)
			}
			return
		}
	}

	log.Fatalf("Unknown command: %s. Use -list to see available commands.", cmdName)
}
