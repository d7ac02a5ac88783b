package main

import "github.com/lepinkainen/dbknih/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
