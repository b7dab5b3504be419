// assess-routing evaluates the keyword router against a labeled question set.
//
// Goal: measure how often the deterministic domain router picks the same
// domain a human would, before any LLM call happens. Routing mistakes are
// cheap to find here and expensive to find in production transcripts.
//
// Input file format: one case per line, "expected_domain<TAB>question".
// Lines starting with # and blank lines are skipped.
//
// Usage: go run ./scripts/assess-routing <cases-file>
//
// Prints a JSON report with per-domain accuracy and every mismatch, so the
// output can be diffed between profile changes.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/wilco-ai/wilco-engine/pkg/routing"
)

// Mismatch records one question the router classified differently than the
// label says it should.
type Mismatch struct {
	Question   string         `json:"question"`
	Expected   string         `json:"expected"`
	Got        string         `json:"got"`
	Confidence float64        `json:"confidence"`
	Scores     map[string]int `json:"scores"`
}

// Report is the full assessment output.
type Report struct {
	Total          int                `json:"total"`
	Correct        int                `json:"correct"`
	Accuracy       float64            `json:"accuracy"`
	DomainAccuracy map[string]float64 `json:"domain_accuracy"`
	Mismatches     []Mismatch         `json:"mismatches"`
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: assess-routing <cases-file>")
		os.Exit(1)
	}

	router, err := routing.NewRouter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build router: %v\n", err)
		os.Exit(1)
	}

	file, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open cases file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	report := Report{DomainAccuracy: map[string]float64{}}
	perDomainTotal := map[string]int{}
	perDomainCorrect := map[string]int{}

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		expected, question, ok := strings.Cut(line, "\t")
		if !ok {
			fmt.Fprintf(os.Stderr, "line %d: missing tab separator, skipping\n", lineNo)
			continue
		}

		result := router.Classify(question)
		report.Total++
		perDomainTotal[expected]++
		if result.Domain == expected {
			report.Correct++
			perDomainCorrect[expected]++
			continue
		}
		report.Mismatches = append(report.Mismatches, Mismatch{
			Question:   question,
			Expected:   expected,
			Got:        result.Domain,
			Confidence: result.Confidence,
			Scores:     result.Scores,
		})
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to read cases file: %v\n", err)
		os.Exit(1)
	}
	if report.Total == 0 {
		fmt.Fprintln(os.Stderr, "no cases found")
		os.Exit(1)
	}

	report.Accuracy = float64(report.Correct) / float64(report.Total)
	for domain, total := range perDomainTotal {
		report.DomainAccuracy[domain] = float64(perDomainCorrect[domain]) / float64(total)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode report: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	if len(report.Mismatches) > 0 {
		os.Exit(2)
	}
}
