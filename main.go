package main

import "github.com/papapumpkin/timecrisis/cmd"

func main() {
	cmd.Execute()
}
