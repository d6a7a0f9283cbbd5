package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSteps(t *testing.T) {
	tests := []struct {
		in      string
		want    StepRange
		wantErr bool
	}{
		{in: "all", want: StepRange{From: 1, To: 3}},
		{in: "", want: StepRange{From: 1, To: 3}},
		{in: "2", want: StepRange{From: 2, To: 2}},
		{in: "1-3", want: StepRange{From: 1, To: 3}},
		{in: "2-4", want: StepRange{From: 2, To: 4}},
		{in: " 1-2 ", want: StepRange{From: 1, To: 2}},
		{in: "3-2", wantErr: true},
		{in: "0", wantErr: true},
		{in: "5", wantErr: true},
		{in: "1-9", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1-", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSteps(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStepRangeContains(t *testing.T) {
	r := StepRange{From: 2, To: 3}
	assert.False(t, r.Contains(1))
	assert.True(t, r.Contains(2))
	assert.True(t, r.Contains(3))
	assert.False(t, r.Contains(4))
}

func TestArtifactName(t *testing.T) {
	assert.Equal(t,
		"backend-role_step1_filtered_20250102_030405.json",
		artifactName("backend-role", StageFilter, "20250102_030405"))
	assert.Equal(t,
		"backend-role_step2_optimized_20250102_030405.json",
		artifactName("backend-role", StageOptimize, "20250102_030405"))
}

func TestLatestArtifactPicksNewest(t *testing.T) {
	dir := t.TempDir()
	for _, ts := range []string{"20250101_000000", "20250103_000000", "20250102_000000"} {
		path := filepath.Join(dir, artifactName("job", StageFilter, ts))
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	}
	// Same stage, different job: must not match.
	other := filepath.Join(dir, artifactName("other", StageFilter, "20250109_000000"))
	require.NoError(t, os.WriteFile(other, []byte("{}"), 0o644))

	got, err := latestArtifact(dir, "job", StageFilter, StageOptimize)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, artifactName("job", StageFilter, "20250103_000000")), got)
}

func TestLatestArtifactMissingIsTyped(t *testing.T) {
	_, err := latestArtifact(t.TempDir(), "job", StageOptimize, StageRender)

	var missing *MissingArtifactError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, StageRender, missing.Stage)
	assert.Contains(t, err.Error(), "run the earlier stages first")
}

func TestSelectedCoverLetterFlag(t *testing.T) {
	p := &Pipeline{opts: Options{
		Steps:       StepRange{From: 1, To: 3},
		CoverLetter: true,
	}}
	assert.True(t, p.selected(StageCoverLetter))

	p.opts.CoverLetter = false
	assert.False(t, p.selected(StageCoverLetter))

	// An explicit range covering stage 4 selects it without the flag.
	p.opts.Steps = StepRange{From: 4, To: 4}
	assert.True(t, p.selected(StageCoverLetter))

	// The flag alone does not trigger it for a range that stops early.
	p.opts.Steps = StepRange{From: 1, To: 2}
	p.opts.CoverLetter = true
	assert.False(t, p.selected(StageCoverLetter))
}

func TestStageErrorWrapsCause(t *testing.T) {
	cause := &MissingArtifactError{Stage: StageRender, Pattern: "x_step2_optimized_*.json"}
	err := &StageError{Stage: StageRender, Name: "render and compile", Err: cause}

	var missing *MissingArtifactError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, err.Error(), "stage 3")
	assert.Contains(t, err.Error(), "render and compile")
}

func TestStageInputPrefersThisRun(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, artifactName("job", StageFilter, "20250101_000000"))
	require.NoError(t, os.WriteFile(old, []byte("{}"), 0o644))

	p := &Pipeline{opts: Options{OutputDir: dir}}

	got, err := p.stageInput("/this/run/output.json", StageFilter, StageOptimize, "job")
	require.NoError(t, err)
	assert.Equal(t, "/this/run/output.json", got)

	got, err = p.stageInput("", StageFilter, StageOptimize, "job")
	require.NoError(t, err)
	assert.Equal(t, old, got)
}
