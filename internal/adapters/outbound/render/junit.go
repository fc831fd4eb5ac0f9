package render

import (
	"encoding/xml"
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/modkit/modkit/internal/domain"
)

type junitSuites struct {
	XMLName xml.Name     `xml:"testsuites"`
	Suites  []junitSuite `xml:"testsuite"`
}

type junitSuite struct {
	Name     string      `xml:"name,attr"`
	Tests    int         `xml:"tests,attr"`
	Failures int         `xml:"failures,attr"`
	Errors   int         `xml:"errors,attr"`
	Cases    []junitCase `xml:"testcase"`
}

type junitCase struct {
	ClassName string        `xml:"classname,attr"`
	Name      string        `xml:"name,attr"`
	Failure   *junitProblem `xml:"failure,omitempty"`
	Error     *junitProblem `xml:"error,omitempty"`
}

type junitProblem struct {
	Type    string `xml:"type,attr"`
	Message string `xml:"message,attr"`
	Body    string `xml:",chardata"`
}

// JUnit writes one test suite per source, sorted by name, with one test case
// per event. The document carries no timestamps or host names, so the same
// report always renders to the same bytes.
func JUnit(w io.Writer, report *domain.Report) error {
	title := cases.Title(language.Und)
	doc := junitSuites{Suites: []junitSuite{}}
	for _, g := range report.Grouped() {
		suite := junitSuite{Name: g.Source}
		for _, e := range g.Events {
			suite.Tests++
			tc := junitCase{ClassName: e.ClassName(), Name: e.CaseName()}
			switch e.State {
			case domain.StateFailure:
				suite.Failures++
				tc.Failure = problem(title, e)
			case domain.StateFatal:
				suite.Errors++
				tc.Error = problem(title, e)
			}
			suite.Cases = append(suite.Cases, tc)
		}
		doc.Suites = append(doc.Suites, suite)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func problem(title cases.Caser, e domain.Event) *junitProblem {
	return &junitProblem{
		Type:    title.String(string(e.Severity)),
		Message: e.Message,
		Body:    e.Text(),
	}
}
