package backend

import "strings"

// Stage is the client-local four-stage progress model. Each stage owns a
// disjoint 25-point band of the server's 0–100 scale, so sub-stage progress
// can be rendered from the global percentage alone.
type Stage int

const (
	StageTranscript Stage = iota
	StageAnalysis
	StageGeneration
	StageSaving
)

const stageBandWidth = 25

func (s Stage) String() string {
	switch s {
	case StageTranscript:
		return "Transcript"
	case StageAnalysis:
		return "Analysis"
	case StageGeneration:
		return "Generation"
	case StageSaving:
		return "Saving"
	}
	return "Unknown"
}

// Band returns the inclusive lower and exclusive upper percentage bound of
// the stage's band. The four bands tile [0,100] exactly.
func (s Stage) Band() (lo, hi int) {
	lo = int(s) * stageBandWidth
	return lo, lo + stageBandWidth
}

// StageProgress is a mapped progress observation: the local stage and how
// far through its band the job is, in [0,1].
type StageProgress struct {
	Stage    Stage
	Fraction float64
}

// MapProgress translates a server-reported (progress, stage) pair into the
// local model. The stage keyword wins; an unrecognized stage string falls
// back to whichever band the percentage sits in, so the mapping is total.
func MapProgress(progress int, stage string) StageProgress {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	s, ok := stageFromKeyword(stage)
	if !ok {
		s = stageFromPercent(progress)
	}
	if s == StageSaving && strings.Contains(strings.ToLower(stage), "complete") {
		return StageProgress{Stage: StageSaving, Fraction: 1}
	}

	lo, _ := s.Band()
	frac := float64(progress-lo) / stageBandWidth
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return StageProgress{Stage: s, Fraction: frac}
}

func stageFromKeyword(stage string) (Stage, bool) {
	lower := strings.ToLower(stage)
	switch {
	case strings.Contains(lower, "transcript"):
		return StageTranscript, true
	case strings.Contains(lower, "analy"):
		return StageAnalysis, true
	case strings.Contains(lower, "summar"), strings.Contains(lower, "generat"):
		return StageGeneration, true
	case strings.Contains(lower, "notion"), strings.Contains(lower, "sav"),
		strings.Contains(lower, "complete"):
		return StageSaving, true
	}
	return 0, false
}

func stageFromPercent(progress int) Stage {
	s := Stage(progress / stageBandWidth)
	if s > StageSaving {
		s = StageSaving
	}
	return s
}
