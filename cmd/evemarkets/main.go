package main

import (
	"github.com/andrescamacho/evemarkets-go/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
