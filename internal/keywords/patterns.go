package keywords

import "regexp"

// techPatterns match technology terms that plain capitalization
// heuristics miss: lowercase tool names, versioned runtimes, compound
// names. Case-insensitive, word-bounded.
var techPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:golang|go)\b`),
	regexp.MustCompile(`(?i)\bpython\b`),
	regexp.MustCompile(`(?i)\bjava(?:script)?\b`),
	regexp.MustCompile(`(?i)\btypescript\b`),
	regexp.MustCompile(`(?i)\bc(?:\+\+|#)`),
	regexp.MustCompile(`(?i)\bruby(?: on rails)?\b`),
	regexp.MustCompile(`(?i)\brust\b`),
	regexp.MustCompile(`(?i)\bkotlin\b`),
	regexp.MustCompile(`(?i)\bswift\b`),
	regexp.MustCompile(`(?i)\bscala\b`),
	regexp.MustCompile(`(?i)\bsql\b`),
	regexp.MustCompile(`(?i)\bno-?sql\b`),
	regexp.MustCompile(`(?i)\bpostgres(?:ql)?\b`),
	regexp.MustCompile(`(?i)\bmysql\b`),
	regexp.MustCompile(`(?i)\bmongodb?\b`),
	regexp.MustCompile(`(?i)\bredis\b`),
	regexp.MustCompile(`(?i)\belasticsearch\b`),
	regexp.MustCompile(`(?i)\bkafka\b`),
	regexp.MustCompile(`(?i)\brabbitmq\b`),
	regexp.MustCompile(`(?i)\bdocker\b`),
	regexp.MustCompile(`(?i)\bkubernetes\b`),
	regexp.MustCompile(`(?i)\bk8s\b`),
	regexp.MustCompile(`(?i)\bterraform\b`),
	regexp.MustCompile(`(?i)\bansible\b`),
	regexp.MustCompile(`(?i)\bjenkins\b`),
	regexp.MustCompile(`(?i)\bci/cd\b`),
	regexp.MustCompile(`(?i)\baws\b`),
	regexp.MustCompile(`(?i)\bamazon web services\b`),
	regexp.MustCompile(`(?i)\bgcp\b`),
	regexp.MustCompile(`(?i)\bgoogle cloud\b`),
	regexp.MustCompile(`(?i)\bazure\b`),
	regexp.MustCompile(`(?i)\blambda\b`),
	regexp.MustCompile(`(?i)\bs3\b`),
	regexp.MustCompile(`(?i)\bdynamodb\b`),
	regexp.MustCompile(`(?i)\breact(?:\.js)?\b`),
	regexp.MustCompile(`(?i)\bangular(?:js)?\b`),
	regexp.MustCompile(`(?i)\bvue(?:\.js)?\b`),
	regexp.MustCompile(`(?i)\bnode(?:\.js)?\b`),
	regexp.MustCompile(`(?i)\bnext\.js\b`),
	regexp.MustCompile(`(?i)\bdjango\b`),
	regexp.MustCompile(`(?i)\bflask\b`),
	regexp.MustCompile(`(?i)\bfastapi\b`),
	regexp.MustCompile(`(?i)\bspring(?: boot)?\b`),
	regexp.MustCompile(`(?i)\bgraphql\b`),
	regexp.MustCompile(`(?i)\brest(?:ful)?\b`),
	regexp.MustCompile(`(?i)\bgrpc\b`),
	regexp.MustCompile(`(?i)\bmicroservices?\b`),
	regexp.MustCompile(`(?i)\bmachine learning\b`),
	regexp.MustCompile(`(?i)\bdeep learning\b`),
	regexp.MustCompile(`(?i)\bnlp\b`),
	regexp.MustCompile(`(?i)\btensorflow\b`),
	regexp.MustCompile(`(?i)\bpytorch\b`),
	regexp.MustCompile(`(?i)\bpandas\b`),
	regexp.MustCompile(`(?i)\bnumpy\b`),
	regexp.MustCompile(`(?i)\bspark\b`),
	regexp.MustCompile(`(?i)\bhadoop\b`),
	regexp.MustCompile(`(?i)\bairflow\b`),
	regexp.MustCompile(`(?i)\betl\b`),
	regexp.MustCompile(`(?i)\bgit(?:hub|lab)?\b`),
	regexp.MustCompile(`(?i)\blinux\b`),
	regexp.MustCompile(`(?i)\bbash\b`),
	regexp.MustCompile(`(?i)\bagile\b`),
	regexp.MustCompile(`(?i)\bscrum\b`),
	regexp.MustCompile(`(?i)\bkanban\b`),
	regexp.MustCompile(`(?i)\bdevops\b`),
	regexp.MustCompile(`(?i)\bobservability\b`),
	regexp.MustCompile(`(?i)\bprometheus\b`),
	regexp.MustCompile(`(?i)\bgrafana\b`),
	regexp.MustCompile(`(?i)\boauth2?\b`),
	regexp.MustCompile(`(?i)\bsaml\b`),
	regexp.MustCompile(`(?i)\bjwt\b`),
}

// variationGroups list spellings that count as the same keyword. A
// resume mentioning any member of a group satisfies the whole group.
var variationGroups = [][]string{
	{"kubernetes", "k8s"},
	{"golang", "go"},
	{"javascript", "js"},
	{"typescript", "ts"},
	{"postgresql", "postgres"},
	{"mongodb", "mongo"},
	{"amazon web services", "aws"},
	{"google cloud", "gcp", "google cloud platform"},
	{"continuous integration", "ci", "ci/cd"},
	{"continuous delivery", "cd", "ci/cd"},
	{"machine learning", "ml"},
	{"artificial intelligence", "ai"},
	{"natural language processing", "nlp"},
	{"react.js", "react", "reactjs"},
	{"node.js", "node", "nodejs"},
	{"vue.js", "vue", "vuejs"},
}

// variationsOf returns every accepted spelling of a keyword, the
// keyword itself included.
func variationsOf(keyword string) []string {
	for _, group := range variationGroups {
		for _, member := range group {
			if member == keyword {
				return group
			}
		}
	}
	return []string{keyword}
}
