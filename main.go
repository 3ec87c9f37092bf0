package main

import "github.com/mikemajara/ai-chatbot/cmd"

func main() {
	cmd.Execute()
}
