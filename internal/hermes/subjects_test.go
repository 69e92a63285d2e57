package hermes

import "testing"

func TestSubjects(t *testing.T) {
	if got := SubjectRunCompleted("abc"); got != "ranking.run.abc.completed" {
		t.Errorf("unexpected completed subject %q", got)
	}
	if got := SubjectRunProgress("article_brand"); got != "ranking.run.article_brand.progress" {
		t.Errorf("unexpected progress subject %q", got)
	}
}
