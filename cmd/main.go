package main

import (
	"github.com/titanshop/shop-svc/internal/app"
	"github.com/titanshop/shop-svc/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
