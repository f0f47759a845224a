package main

import (
	"log"

	"github.com/example/mnemo/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
