package report

import log "github.com/sirupsen/logrus"

type NopIndicator struct{}

func (NopIndicator) Show(string) {}
func (NopIndicator) Hide()       {}

// LogIndicator reports progress through the logger, for headless runs.
type LogIndicator struct{}

func (LogIndicator) Show(message string) {
	log.Info(message)
}

func (LogIndicator) Hide() {
	log.Debug("Report generation finished")
}
