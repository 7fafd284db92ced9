// File path: internal/normalize/normalize.go
package normalize

import (
	"encoding/json"
	"strings"

	"github.com/MohittShukla/QA-agent/internal/common"
)

// TestCase mirrors the shape the test-case prompt demands from the model.
// Decoding is loose: unknown fields are ignored and missing fields stay
// zero-valued.
type TestCase struct {
	ID             int      `json:"id"`
	Description    string   `json:"description"`
	Steps          []string `json:"steps"`
	ExpectedResult string   `json:"expected_result"`
}

// Result is the tagged outcome of normalizing a test-case response. Either
// Parsed is true and Cases holds the decoded list, or Parsed is false and
// Raw carries the fence-stripped model text. Malformed model output is not
// an error; the caller surfaces the raw text instead of discarding it.
type Result struct {
	Cases  []TestCase
	Raw    string
	Parsed bool
}

// TestCases strips any code fence from the model output and attempts to
// decode a JSON array of test cases.
func TestCases(raw string) Result {
	extracted := ExtractFenced(raw)
	var cases []TestCase
	if err := json.Unmarshal([]byte(extracted), &cases); err != nil {
		common.Logger().Warn("normalize: test case response was not valid JSON", "error", err, "chars", len(extracted))
		return Result{Raw: extracted}
	}
	return Result{Cases: cases, Parsed: true}
}

// Script returns the fence-stripped script body.
func Script(raw string) string {
	return ExtractFenced(raw)
}

type fencedBlock struct {
	tag  string
	body string
}

// ExtractFenced locates fenced blocks by matching delimiter pairs. The
// first block tagged json or python wins; otherwise the first block of any
// kind; otherwise the text is returned unchanged. An unterminated fence
// yields the remainder of the text, and blocks past the first match are
// ignored.
func ExtractFenced(raw string) string {
	trimmed := strings.TrimSpace(raw)
	blocks := fencedBlocks(trimmed)
	if len(blocks) == 0 {
		return trimmed
	}
	for _, block := range blocks {
		if block.tag == "json" || block.tag == "python" {
			return strings.TrimSpace(block.body)
		}
	}
	return strings.TrimSpace(blocks[0].body)
}

func fencedBlocks(text string) []fencedBlock {
	var blocks []fencedBlock
	var body []string
	var tag string
	open := false
	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "```") {
			if open {
				blocks = append(blocks, fencedBlock{tag: tag, body: strings.Join(body, "\n")})
				open = false
				continue
			}
			open = true
			tag = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(stripped, "```")))
			body = nil
			continue
		}
		if open {
			body = append(body, line)
		}
	}
	if open {
		blocks = append(blocks, fencedBlock{tag: tag, body: strings.Join(body, "\n")})
	}
	return blocks
}
