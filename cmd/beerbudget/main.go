// Command beerbudget spends a budget on beer as exactly as possible.
//
// Usage:
//
//	beerbudget plan --beer "Pilsner 29" --beer "Porter 200" 1000
//	beerbudget plan --search "pilsner" --save 500
//	beerbudget compare --beer "Pilsner 29" --beer "Porter 200" 1000
//	beerbudget history --limit 10
//	beerbudget serve --port 8080
package main

import (
	"fmt"
	"os"

	"github.com/eshaffer321/beerbudget/internal/cli"
)

func main() {
	app := cli.NewApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
