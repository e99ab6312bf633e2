package main

import (
	"github.com/joho/godotenv"

	"cnpjchat/internal/cli"
)

func main() {
	// Optional .env for the LLM credentials; absence is fine.
	_ = godotenv.Load()

	cli.Execute()
}
