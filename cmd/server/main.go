package main

import "github.com/openseat/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
