// Command hashpw prints a bcrypt hash for SWEETSHOP_ADMIN_PASSWORD_HASH.
//
//	go run ./cmd/hashpw 's3cret'
package main

import (
	"fmt"
	"os"

	"sweetshop/internal/services"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hashpw <password>")
		os.Exit(2)
	}
	hash, err := services.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "hashpw:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
