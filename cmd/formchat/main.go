package main

import "github.com/diogo/formchat/internal/commands"

func main() {
	commands.Execute()
}
