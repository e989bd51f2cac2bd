package main

import (
	"os"

	"github.com/klokku/timesheet/internal/app"
	log "github.com/sirupsen/logrus"
	"github.com/xlab/closer"
)

func init() {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	defer closer.Close()

	if err := app.NewCLI().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
