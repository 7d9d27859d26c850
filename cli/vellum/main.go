package main

import (
	"os"

	vellumcmder "github.com/vellumhq/vellum/cmd/vellum"
)

func main() {
	cmd := vellumcmder.NewVellumCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
