package mutation

import (
	"embed"
	"fmt"

	"mutbench/internal/model"
)

//go:embed samples/*.json
var sampleFS embed.FS

// Sample labels accepted by Sample and the --sample flag.
const (
	// SampleRound1 is a first study round over a small worked example:
	// 3 mutants, 1 detected, 2 survived (33.33% detection).
	SampleRound1 = "round-1"

	// SampleRound2 is the same project after tests were added for the
	// round-1 survivors: 8 mutants, 7 detected, 1 survived
	// (87.5% detection).
	SampleRound2 = "round-2"
)

// sampleFiles maps sample labels to their embedded fixture files.
var sampleFiles = map[string]string{
	SampleRound1: "samples/round1.json",
	SampleRound2: "samples/round2.json",
}

// SampleLabels returns the available sample labels.
func SampleLabels() []string {
	return []string{SampleRound1, SampleRound2}
}

// Sample returns the embedded fixture mutants for a label. The fixtures
// let the full run-report-compare path execute without any external tool
// installed, which is how the study is demonstrated end to end.
func Sample(label string) ([]model.Mutant, error) {
	file, ok := sampleFiles[label]
	if !ok {
		return nil, fmt.Errorf("unknown sample %q (known: %v)", label, SampleLabels())
	}

	data, err := sampleFS.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded sample: %w", err)
	}

	return (&GenericAdapter{}).Parse(data)
}
