package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global settings
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "demo":
		demoCmd(apiURL, args)
	case "settings":
		settingsCmd(apiURL, args)
	case "reset":
		resetCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Catalog Seeder - Development tool for filling a local store

USAGE:
  seed <command> [options]

COMMANDS:
  demo      Create demo games, heroes and accounts through the admin API
  settings  Save Telegram and AI assistant settings
  reset     Delete every game (heroes, accounts and orders go with them)
  help      Show this help message

COMMON OPTIONS:
  --email     Admin email    (default: $ADMIN_EMAIL)
  --password  Admin password (default: $ADMIN_PASSWORD)

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:8080)

EXAMPLES:
  # Seed the demo catalog with 3 listings per game
  seed demo --accounts=3

  # Point lead delivery at a Telegram chat
  seed settings --bot-token=123:abc --chat-id=-100123

  # Start over
  seed reset`)
}

func credentialFlags(fs *flag.FlagSet) (*string, *string) {
	email := fs.String("email", os.Getenv("ADMIN_EMAIL"), "Admin email")
	password := fs.String("password", os.Getenv("ADMIN_PASSWORD"), "Admin password")
	return email, password
}

func login(apiURL, email, password string) *APIClient {
	if email == "" || password == "" {
		fmt.Println("Error: --email and --password are required (or set ADMIN_EMAIL / ADMIN_PASSWORD)")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	fmt.Print("Logging in... ")
	auth, err := client.Login(email, password)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (%s)\n", auth.User.Email)
	return client
}

func demoCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	email, password := credentialFlags(fs)
	perGame := fs.Int("accounts", 4, "Number of listings to create per game")
	fs.Parse(args)

	if *perGame < 1 || *perGame > 50 {
		fmt.Println("Error: --accounts must be between 1 and 50")
		os.Exit(1)
	}

	client := login(apiURL, *email, *password)

	fmt.Println()
	fmt.Println("=== Seeding demo catalog ===")

	created := 0
	for _, demo := range demoCatalog {
		fmt.Println()
		fmt.Printf("Game %s:\n", demo.Game.NameEn)

		game, err := client.CreateGame(demo.Game)
		if err != nil {
			fmt.Printf("  FAILED: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  created (slug: %s)\n", game.Slug)

		heroes := make([]*Hero, 0, len(demo.Heroes))
		for _, h := range demo.Heroes {
			h.GameID = game.ID
			hero, err := client.CreateHero(h)
			if err != nil {
				fmt.Printf("  FAILED: %v\n", err)
				os.Exit(1)
			}
			heroes = append(heroes, hero)
		}
		if len(heroes) > 0 {
			fmt.Printf("  %d heroes\n", len(heroes))
		}

		for i := 0; i < *perGame; i++ {
			req := demoAccount(demo, game, heroes, i)
			account, err := client.CreateAccount(req)
			if err != nil {
				fmt.Printf("  FAILED: %v\n", err)
				os.Exit(1)
			}
			created++
			fmt.Printf("  [%d/%d] %s (%s, %d heroes)\n", i+1, *perGame, account.TitleEn, account.Status, len(req.HeroIDs))
		}
	}

	fmt.Println()
	fmt.Println("=========================================")
	fmt.Printf("  SEEDED %d GAMES, %d ACCOUNTS\n", len(demoCatalog), created)
	fmt.Println("=========================================")
	fmt.Println()
}

func settingsCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("settings", flag.ExitOnError)
	email, password := credentialFlags(fs)
	botToken := fs.String("bot-token", os.Getenv("TELEGRAM_BOT_TOKEN"), "Telegram bot token")
	chatID := fs.String("chat-id", os.Getenv("TELEGRAM_CHAT_ID"), "Telegram chat that receives leads")
	aiKey := fs.String("ai-key", os.Getenv("AI_API_KEY"), "Chat completion API key")
	aiURL := fs.String("ai-url", "https://api.openai.com/v1/chat/completions", "Chat completion endpoint")
	aiModel := fs.String("ai-model", "gpt-3.5-turbo", "Chat completion model")
	fs.Parse(args)

	client := login(apiURL, *email, *password)

	fmt.Print("Saving settings... ")
	err := client.UpdateSettings(SettingsRequest{
		TelegramBotToken: *botToken,
		TelegramChatID:   *chatID,
		AIAPIKey:         *aiKey,
		AIAPIURL:         *aiURL,
		AIModel:          *aiModel,
	})
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK")

	if *botToken == "" || *chatID == "" {
		fmt.Println("  Note: lead delivery stays disabled until both --bot-token and --chat-id are set")
	}
	if *aiKey == "" {
		fmt.Println("  Note: the assistant stays disabled until --ai-key is set")
	}
}

func resetCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	email, password := credentialFlags(fs)
	fs.Parse(args)

	client := login(apiURL, *email, *password)

	games, err := client.ListGames()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	for _, game := range games {
		if err := client.DeleteGame(game.ID); err != nil {
			fmt.Printf("  FAILED: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  deleted %s\n", game.Slug)
	}
	fmt.Printf("Removed %d games\n", len(games))
}
