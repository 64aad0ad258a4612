package main

import (
	"github.com/sergey-royt/effective-mobile-test-task/internal/app"
)

//	@title			Warehouse Manager API
//	@version		1.0
//	@description	Сервис управления товарами и заказами склада.

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	app.Run()
}
