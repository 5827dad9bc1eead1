package internal

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ParseMode identifies which stage of the response parser produced an
// Assessment.
type ParseMode int

const (
	// ParsedStrict means the response was a well-formed JSON object.
	ParsedStrict ParseMode = iota
	// ParsedHeuristic means the response was free text recovered via
	// the section-marker scan.
	ParsedHeuristic
	// ParseFailed means neither stage produced a usable assessment.
	ParseFailed
)

var numberedItem = regexp.MustCompile(`^\d+\.`)

// Section markers the provider is prompted to use when it answers in
// free text instead of JSON.
const (
	markerPerformance = "PERFORMANCE COMMENT:"
	markerCorrection  = "CORRECTION:"
	markerImprovement = "IMPROVEMENT AREAS:"
	markerEncourage   = "ENCOURAGEMENT:"
)

// ParseAssessment parses a provider response. It first attempts strict
// JSON; when that fails it scans for the four section markers,
// accumulating subsequent non-empty lines into whichever section was
// last opened and skipping numbered list items. The mode tag keeps the
// fallback path testable on its own.
func ParseAssessment(text string) (*Assessment, ParseMode, error) {
	var strict Assessment
	if err := json.Unmarshal([]byte(text), &strict); err == nil {
		return &strict, ParsedStrict, nil
	}

	heuristic, ok := parseMarkedSections(text)
	if !ok {
		return nil, ParseFailed, errors.New("response matched neither JSON nor the section-marker format")
	}
	return heuristic, ParsedHeuristic, nil
}

func parseMarkedSections(text string) (*Assessment, bool) {
	assessment := &Assessment{}
	sections := map[string]*string{
		markerPerformance: &assessment.PerformanceComment,
		markerCorrection:  &assessment.Correction,
		markerImprovement: &assessment.ImprovementAreas,
		markerEncourage:   &assessment.Encouragement,
	}

	var current *string
	found := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		opened := false
		for marker, target := range sections {
			if strings.Contains(line, marker) {
				current = target
				*current = strings.TrimSpace(strings.Replace(line, marker, "", 1))
				found = true
				opened = true
				break
			}
		}
		if opened {
			continue
		}

		if current != nil && line != "" && !numberedItem.MatchString(line) {
			if *current != "" {
				*current += " "
			}
			*current += line
		}
	}

	if !found {
		return nil, false
	}
	return assessment, true
}
