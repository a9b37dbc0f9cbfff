package main

import "carpool-backend/cmd"

func main() {
	cmd.Run()
}
