package main

import (
	"os"

	"github.com/GoAccessAdmin/GoAccessAdmin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
