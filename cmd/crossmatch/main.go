// Command crossmatch decides which searchees are submitted to search
// providers and keeps the search history that decision depends on.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
