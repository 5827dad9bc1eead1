package main

import "github.com/chrisyu-uiuc/uibackup/cmd"

func main() {
	cmd.Execute()
}
