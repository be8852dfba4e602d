package deploy

import rollouterrors "github.com/alexisbeaulieu97/rollout/pkg/errors"

// Stage is a deployment environment used to select hosts.
type Stage string

const (
	StageDevelopment Stage = "development"
	StageTesting     Stage = "testing"
	StageStaging     Stage = "staging"
	StageProduction  Stage = "production"
)

var stages = []Stage{StageDevelopment, StageTesting, StageStaging, StageProduction}

// Stages lists the recognised stage labels.
func Stages() []string {
	out := make([]string, 0, len(stages))
	for _, s := range stages {
		out = append(out, string(s))
	}
	return out
}

// ParseStage validates a stage label.
func ParseStage(s string) (Stage, error) {
	for _, stage := range stages {
		if string(stage) == s {
			return stage, nil
		}
	}
	return "", rollouterrors.NewInvalidStageError(s, Stages())
}
