package main

import "github.com/hb-chen/skillrun/cmd"

func main() {
	cmd.Execute()
}
