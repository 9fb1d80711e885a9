package main

import "github.com/dset/arsavings/cmd"

func main() {
	cmd.Execute()
}
