// Command gensecret prints a random value suitable for JWT_SECRET.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

const secretBytes = 32

func main() {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		fmt.Fprintln(os.Stderr, "failed to read random bytes:", err)
		os.Exit(1)
	}
	secret := hex.EncodeToString(buf)

	fmt.Println("Generated JWT secret:")
	fmt.Println(secret)
	fmt.Println()
	fmt.Println("Add it to your environment as:")
	fmt.Println("JWT_SECRET=" + secret)
}
