package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hookline/hookline/pkg/signature"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/hmac/main.go <secret_key> [payload]")
		fmt.Println("Reads the payload from stdin when not given as an argument.")
		os.Exit(1)
	}

	secretKey := os.Args[1]

	var body []byte
	if len(os.Args) > 2 {
		body = []byte(os.Args[2])
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read payload from stdin: %v\n", err)
			os.Exit(1)
		}
		body = data
	}

	header := signature.Compute(secretKey, body)

	fmt.Println()
	fmt.Printf("Payload bytes: %d\n", len(body))
	fmt.Printf("%s: %s\n", signature.Header, header)
	fmt.Println()
	fmt.Printf("curl example: curl -X POST -H '%s: %s' -d @payload.json http://localhost:8080/ingest/<subscription_id>\n", signature.Header, header)
}
