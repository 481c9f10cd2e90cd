package keywords

import (
	"reflect"
	"sort"
	"testing"
)

const jobDescription = `We are hiring a backend engineer. You will build services in Go
and Python, run them on Kubernetes in AWS, and own our PostgreSQL schemas.
Experience with Docker, Terraform, and gRPC is a plus.`

func TestAnalyzeIsDeterministic(t *testing.T) {
	resume := "Seasoned Go developer. Deployed workloads to k8s clusters on AWS."

	first := Analyze(resume, jobDescription)
	for i := 0; i < 10; i++ {
		again := Analyze(resume, jobDescription)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("analysis differs between runs:\nfirst %+v\nagain %+v", first, again)
		}
	}

	if !sort.StringsAreSorted(first.Found) || !sort.StringsAreSorted(first.Missing) {
		t.Fatalf("keyword lists not sorted: %+v", first)
	}
}

func TestAnalyzePartitionsKeywords(t *testing.T) {
	resume := "Go developer running services on Kubernetes with PostgreSQL."
	analysis := Analyze(resume, jobDescription)

	found := make(map[string]struct{}, len(analysis.Found))
	for _, k := range analysis.Found {
		found[k] = struct{}{}
	}
	for _, k := range analysis.Missing {
		if _, dup := found[k]; dup {
			t.Fatalf("keyword %q in both found and missing", k)
		}
	}
	if got := len(analysis.Found) + len(analysis.Missing); got != len(Extract(jobDescription)) {
		t.Fatalf("partition does not cover extraction: %d vs %d", got, len(Extract(jobDescription)))
	}

	if _, ok := found["go"]; !ok {
		t.Fatalf("expected go to be found, got %+v", analysis.Found)
	}
	if _, ok := found["kubernetes"]; !ok {
		t.Fatalf("expected kubernetes to be found, got %+v", analysis.Found)
	}
}

func TestAnalyzeAcceptsSpellingVariations(t *testing.T) {
	// k8s on the resume satisfies kubernetes in the job description
	analysis := Analyze("Operated k8s clusters.", "Must know Kubernetes.")
	for _, k := range analysis.Missing {
		if k == "kubernetes" {
			t.Fatalf("kubernetes should match via k8s: %+v", analysis)
		}
	}
}

func TestAnalyzeScoreBounds(t *testing.T) {
	cases := []struct {
		name   string
		resume string
		jd     string
	}{
		{"no overlap", "Career chef and caterer.", jobDescription},
		{"full overlap", jobDescription, jobDescription},
		{"empty jd", "Go developer.", ""},
	}
	for _, tc := range cases {
		analysis := Analyze(tc.resume, tc.jd)
		if analysis.MatchScore < 0 || analysis.MatchScore > 100 {
			t.Errorf("%s: score %d out of range", tc.name, analysis.MatchScore)
		}
	}

	full := Analyze(jobDescription, jobDescription)
	if full.MatchScore != 100 {
		t.Fatalf("identical texts should score 100, got %d", full.MatchScore)
	}
	if empty := Analyze("resume", ""); empty.MatchScore != 0 {
		t.Fatalf("empty job description should score 0, got %d", empty.MatchScore)
	}
}

func TestContainsWordBoundaries(t *testing.T) {
	if containsWord("google cloud", "go") {
		t.Fatalf("go must not match inside google")
	}
	if !containsWord("written in go.", "go") {
		t.Fatalf("go should match as a word")
	}
}
