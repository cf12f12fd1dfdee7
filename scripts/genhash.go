//go:build ignore

// genhash prints a bcrypt hash for seeding an admin account:
//
//	go run scripts/genhash.go 'password'
package main

import (
	"fmt"
	"os"

	"go-scout-backend/pkg/security"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: go run scripts/genhash.go <password>")
		os.Exit(2)
	}
	hash, err := security.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
