package main

import "planboard/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustOpenStores()

	app.MustListenAndServeHTTP()
}
