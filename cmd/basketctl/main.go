// Command basketctl runs the basket-service engines from the command line.
package main

import (
	"os"

	"github.com/guttosm/basket-service/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; the environment is used as is.
	_ = godotenv.Load()

	os.Exit(cli.Execute())
}
