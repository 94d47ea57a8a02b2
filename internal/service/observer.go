package service

import "log"

// NopObserver discards all progress notifications.
type NopObserver struct{}

func (NopObserver) StageStarted(Stage)           {}
func (NopObserver) StageCompleted(Stage, string) {}
func (NopObserver) StageFailed(Stage, error)     {}

// LogObserver prints stage progress as log lines; used by the CLI front
// end and as a default when no sink is attached.
type LogObserver struct{}

func (LogObserver) StageStarted(stage Stage) {
	log.Printf("[Assembler] stage %d/%d %s...", stage.Step, len(Stages), stage.Name)
}

func (LogObserver) StageCompleted(stage Stage, message string) {
	log.Printf("[Assembler] stage %d/%d %s done: %s", stage.Step, len(Stages), stage.Name, message)
}

func (LogObserver) StageFailed(stage Stage, err error) {
	log.Printf("[Assembler] stage %d/%d %s failed: %v", stage.Step, len(Stages), stage.Name, err)
}
