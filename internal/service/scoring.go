package service

import (
	"regexp"
	"strconv"
	"strings"
)

// Quest level scoring: every submission earns a base 10 points, with a +10
// bonus on the Ideate, Prototype and Test levels when the rubric is met.
const (
	questBaseScore  = 10
	questBonusScore = 10

	levelIdeate    = 3
	levelPrototype = 4
	levelTest      = 5
)

var ideaSeparators = regexp.MustCompile(`[\n,;]+`)

func CalculateLevelScore(levelOrder int, answers map[string]string, hasArtifact bool) int {
	score := questBaseScore

	switch levelOrder {
	case levelIdeate:
		score += ideateBonus(answers)
	case levelPrototype:
		score += prototypeBonus(answers, hasArtifact)
	case levelTest:
		score += testBonus(answers)
	}

	return score
}

// ideateBonus rewards an ideas list of at least 120 characters, or one that
// splits into two or more distinct ideas.
func ideateBonus(answers map[string]string) int {
	ideasList := answers["ideas_list"]
	if ideasList == "" {
		return 0
	}

	if len(ideasList) >= 120 {
		return questBonusScore
	}

	items := ideaSeparators.Split(strings.TrimSpace(ideasList), -1)
	count := 0
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			count++
		}
	}
	if count >= 2 {
		return questBonusScore
	}

	return 0
}

func prototypeBonus(answers map[string]string, hasArtifact bool) int {
	if strings.TrimSpace(answers["prototype_link"]) != "" {
		return questBonusScore
	}
	if hasArtifact {
		return questBonusScore
	}
	return 0
}

// testBonus rewards a peer rating of 4 or above.
func testBonus(answers map[string]string) int {
	rating, err := strconv.Atoi(strings.TrimSpace(answers["peer_rating"]))
	if err != nil {
		return 0
	}
	if rating >= 4 {
		return questBonusScore
	}
	return 0
}
