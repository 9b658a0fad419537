package analysis

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/rraj-official/radical-content-analyzer-sub000/internal/domain/entities"
	usecaseerrors "github.com/rraj-official/radical-content-analyzer-sub000/internal/usecase/errors"
)

// Parser turns raw analyzer output into a RiskAssessment
type Parser struct{}

// NewParser creates a new parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseRiskAssessment parses the analyzer's JSON output. When the output is
// not valid JSON it falls back to scraping the plain-text form, and as a
// last resort returns the default placeholder assessment.
func (p *Parser) ParseRiskAssessment(content string) *entities.RiskAssessment {
	if result, err := p.parseStructured(content); err == nil {
		return result
	}
	if result := p.scrapeUnstructured(content); result != nil {
		return result
	}
	return entities.DefaultRiskAssessment()
}

// parseStructured parses strict JSON, tolerating markdown code fences
func (p *Parser) parseStructured(content string) (*entities.RiskAssessment, error) {
	content = extractJSON(content)

	var result entities.RiskAssessment
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, usecaseerrors.ErrMalformedAnalysis
	}
	if result.Overview == "" && result.Analysis == "" {
		return nil, usecaseerrors.ErrMalformedAnalysis
	}

	result.RadicalProbability = clampScore(result.RadicalProbability)
	result.RadicalContent = clampScore(result.RadicalContent)
	if result.RiskFactors == nil {
		result.RiskFactors = []string{}
	}
	if result.SafetyTips == nil {
		result.SafetyTips = []string{}
	}
	return &result, nil
}

var (
	probabilityRe = regexp.MustCompile(`(?i)radical[_ ]probability["\s:]*([0-9]{1,3})`)
	contentRe     = regexp.MustCompile(`(?i)radical[_ ]content["\s:]*([0-9]{1,3})`)
	overviewRe    = regexp.MustCompile(`(?i)overview["\s:]*"?([^"\n]+)`)
)

// scrapeUnstructured pulls scores and an overview out of free-form analyzer
// text. Returns nil when not even the scores can be found.
func (p *Parser) scrapeUnstructured(content string) *entities.RiskAssessment {
	probMatch := probabilityRe.FindStringSubmatch(content)
	contMatch := contentRe.FindStringSubmatch(content)
	if probMatch == nil && contMatch == nil {
		return nil
	}

	result := &entities.RiskAssessment{
		Analysis:    strings.TrimSpace(content),
		RiskFactors: []string{},
		SafetyTips:  []string{},
	}
	if probMatch != nil {
		n, _ := strconv.Atoi(probMatch[1])
		result.RadicalProbability = clampScore(n)
	}
	if contMatch != nil {
		n, _ := strconv.Atoi(contMatch[1])
		result.RadicalContent = clampScore(n)
	}
	if m := overviewRe.FindStringSubmatch(content); m != nil {
		result.Overview = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(m[1]), ","))
	} else {
		result.Overview = "Assessment recovered from unstructured analyzer output"
	}
	return result
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	content = strings.TrimSpace(content)

	// Trim any prose around the outermost object
	if start := strings.Index(content, "{"); start != -1 {
		if end := strings.LastIndex(content, "}"); end > start {
			content = content[start : end+1]
		}
	}
	return content
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
