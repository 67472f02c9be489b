package main

import "github.com/savora-app/savora_backend/cmd"

func main() {
	cmd.Execute()
}
