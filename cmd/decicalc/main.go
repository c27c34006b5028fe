// Command decicalc evaluates decimal arithmetic expressions.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "decicalc:", err)
		}
		os.Exit(1)
	}
}
