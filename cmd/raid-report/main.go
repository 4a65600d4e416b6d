package main

import (
	"github.com/pfrederiksen/raid-report/internal/cli"
)

func main() {
	cli.Execute()
}
