package main

import "github.com/khanhnv2901/siteverify/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}
