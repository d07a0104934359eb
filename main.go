package main

import "github.com/NewCodeOnDaBlock/the-pocket-advance-generator/cmd"

func main() {
	cmd.Execute()
}
