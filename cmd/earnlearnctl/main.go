package main

import "github.com/dukerupert/earnlearn/cmd/earnlearnctl/root"

func main() {
	root.Execute()
}
