package main

import "github.com/franciscosanchezn/pizza-store/cmd/pizzactl/commands"

func main() {
	commands.Execute()
}
