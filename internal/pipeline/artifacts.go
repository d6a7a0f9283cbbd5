package pipeline

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Artifact kinds by stage. Stage outputs are written once under a
// timestamped name and never rewritten, so sequential runs cannot clobber
// each other and every intermediate stays inspectable.
var stageKinds = map[int]string{
	StageFilter:   "filtered",
	StageOptimize: "optimized",
}

func artifactName(jobName string, stage int, timestamp string) string {
	return fmt.Sprintf("%s_step%d_%s_%s.json", jobName, stage, stageKinds[stage], timestamp)
}

func artifactPattern(jobName string, stage int) string {
	return fmt.Sprintf("%s_step%d_%s_*.json", jobName, stage, stageKinds[stage])
}

// latestArtifact finds the most recent artifact producedBy wrote for this
// job, for use as input to stage neededBy. Timestamps sort lexically, so
// the last glob match is the newest.
func latestArtifact(dir, jobName string, producedBy, neededBy int) (string, error) {
	pattern := artifactPattern(jobName, producedBy)
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", &MissingArtifactError{Stage: neededBy, Pattern: pattern}
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}
