// Command readinessctl checks question bank content and scores answer files
// offline with the same engine the server uses.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
