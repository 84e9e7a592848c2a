package main

import "github.com/mimiro-io/heroes-datalayer/internal/app"

func main() {
	app.Run()
}
