package main

import "github.com/ridoystarlord/visusql/cmd"

func main() {
	cmd.Execute()
}
