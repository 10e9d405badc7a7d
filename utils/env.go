package utils

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env from the working directory when present.
func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("ℹ️  No .env file found, continuing...")
	}
}
