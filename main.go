package main

import "github.com/LegacyCodeHQ/relativize/cmd"

func main() {
	cmd.Execute()
}
