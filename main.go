package main

import "ticketboard/internal/app"

func main() {
	app.Main()
}
