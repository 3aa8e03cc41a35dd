package main

import "github.com/kazzyman/groktune/cmd"

func main() {
	cmd.Execute()
}
