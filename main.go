package main

import "github.com/kasuboski/ratez/cmd"

func main() {
	cmd.Execute()
}
