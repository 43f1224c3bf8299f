package feeder

import (
	"log/slog"

	"k8s.io/klog"
)

//go:generate mockgen -destination=mocks/mock_observer.go -package=mocks . Observer

// Observer is notified about the progress of every import.
type Observer interface {
	ImportStarted(count int)
	ImportCompleted(count int, result Result)
	ImportFailed(err error)
}

// LogObserver logs import progress.
type LogObserver struct{}

func (LogObserver) ImportStarted(count int) {
	klog.Infof("Importing %d statement transactions", count)
}

func (LogObserver) ImportCompleted(count int, result Result) {
	klog.Infof("Imported %d statement transactions, %d new, %d already stored", count, result.Inserted, result.Skipped)
}

func (LogObserver) ImportFailed(err error) {
	slog.Error("statement import failed", "error", err)
}
