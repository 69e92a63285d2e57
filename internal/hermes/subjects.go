package hermes

const (
	SubjectRunWildcard = "ranking.run.>"
	SubjectRunFailed   = "ranking.run.failed"

	StreamName   = "RANKING_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectRunCompleted(runID string) string { return "ranking.run." + runID + ".completed" }
func SubjectRunProgress(kind string) string   { return "ranking.run." + kind + ".progress" }
