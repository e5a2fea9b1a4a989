package main

import "github.com/EigenDev/sailfish/cmd"

func main() {
	cmd.Execute()
}
