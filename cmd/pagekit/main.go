package main

import "github.com/MeKo-Tech/pagekit/cmd/pagekit/cmd"

func main() {
	cmd.Execute()
}
