// Command hashpw prints the bcrypt hash of a password, for setting
// ADMIN_PASSWORD_HASH in a deployment environment.
package main

import (
	"fmt"
	"os"

	"github.com/pdia/sitegate/pkg/auth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hashpw <password>")
		os.Exit(2)
	}

	hash, err := auth.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
