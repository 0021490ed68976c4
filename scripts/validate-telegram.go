package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-telegram/bot"
	"github.com/joho/godotenv"

	"github.com/mybestodds/mybestodds-go/internal/config"
)

// Checks the Telegram side of kit delivery before a batch run: token
// present, bot reachable, webhook configured. Exits non-zero on anything
// that would make DeliverForecasts a no-op in production.
func main() {
	fmt.Println("Checking Telegram kit-delivery configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("warning: no .env file loaded: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("error: could not load configuration: %v\n", err)
		os.Exit(1)
	}

	if cfg.Telegram.BotToken == "" {
		fmt.Println("error: TELEGRAM_BOT_TOKEN is not set")
		fmt.Println("  Forecast kits will not be delivered over Telegram;")
		fmt.Println("  batch runs will report delivered=0 for every subscriber.")
		os.Exit(1)
	}
	fmt.Printf("ok: TELEGRAM_BOT_TOKEN is set (length %d)\n", len(cfg.Telegram.BotToken))

	b, err := bot.New(cfg.Telegram.BotToken)
	if err != nil {
		fmt.Printf("error: could not create Telegram bot client: %v\n", err)
		os.Exit(1)
	}

	if cfg.Telegram.WebhookURL == "" {
		fmt.Println("warning: TELEGRAM_WEBHOOK_URL is not set; subscriber chat binding via /start will not work")
	} else {
		fmt.Printf("ok: TELEGRAM_WEBHOOK_URL is %s\n", cfg.Telegram.WebhookURL)
	}

	// GetMe is a live API call; failure here usually means a revoked token.
	fmt.Println("Contacting the Telegram Bot API...")
	botInfo, err := b.GetMe(context.Background())
	if err != nil {
		fmt.Printf("error: Bot API unreachable: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("ok: delivering kits as @%s (%s, id %d)\n", botInfo.Username, botInfo.FirstName, botInfo.ID)
	fmt.Println("Telegram kit delivery is ready.")
}
