package reader

import (
	log "github.com/sirupsen/logrus"
)

// panicHandler logs panics from our background goroutines rather than
// letting them take the whole process down silently.
func panicHandler(goroutineName string, recoverResult any, stackTrace []byte) {
	if recoverResult == nil {
		return
	}

	log.WithFields(log.Fields{
		"panic":      recoverResult,
		"stackTrace": string(stackTrace),
	}).Error("Goroutine panicked: " + goroutineName)
}
