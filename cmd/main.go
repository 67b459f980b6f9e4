package main

import (
	"nbprates/internal/app"
	"os"

	"github.com/sirupsen/logrus"
)

// @title NBP Rates API
// @version 1.0
// @description Synchronizes NBP exchange rate tables and renders chart series over the stored history.
// @BasePath /api/v1
func main() {
	if err := app.Run(); err != nil {
		logrus.WithError(err).Error("Application stopped")
		os.Exit(1)
	}
}
