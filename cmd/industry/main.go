package main

import (
	"github.com/andrescamacho/industry-planner/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
