package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/activityportal/internal/cli"
)

func main() {
	_ = godotenv.Load(".env.local")
	os.Exit(cli.New().Execute())
}
