// File path: internal/prompt/prompt.go
package prompt

import (
	"fmt"

	"github.com/tmc/langchaingo/prompts"
)

// testCaseTemplate instructs the model to return exactly 5 test cases as a
// bare JSON array. The output contract lives here; validation of the actual
// response happens in the normalize package.
const testCaseTemplate = `You are a QA Lead with expertise in software testing and quality assurance.

Based strictly on the provided documentation and HTML structure below, generate exactly 5 comprehensive test cases.

DOCUMENTATION:
{{.docs}}

HTML STRUCTURE:
{{.html}}

REQUIREMENTS:
1. Analyze the business rules and requirements from the documentation
2. Examine the HTML structure to understand the UI elements and their IDs
3. Generate 5 test cases that cover critical functionality
4. Each test case must include: id (number), description (string), steps (array of strings), expected_result (string)
5. Focus on validation rules, user inputs, and business logic
6. Return ONLY valid JSON format

OUTPUT FORMAT (return only the JSON array, no markdown or additional text):
[
  {
    "id": 1,
    "description": "Test case description",
    "steps": ["Step 1", "Step 2", "Step 3"],
    "expected_result": "Expected outcome"
  }
]

Generate the test cases now:`

const scriptTemplate = `You are a Senior QA Automation Engineer specializing in Selenium WebDriver with Python.

Generate a complete, production-ready Python Selenium script for the following test case.

TEST CASE:
{{.test_case_json}}

HTML STRUCTURE (use the IDs and elements from this HTML):
{{.html}}

REQUIREMENTS:
1. Use Python with Selenium WebDriver
2. Use the exact IDs and classes from the provided HTML
3. Include proper waits (WebDriverWait, expected_conditions)
4. Include error handling and assertions
5. Add comments explaining each step
6. Use Chrome WebDriver
7. Include setup and teardown
8. Make the script executable and complete
9. Return ONLY the Python code, no markdown formatting, no explanations

Generate the Selenium script now:`

var testCasePrompt = prompts.PromptTemplate{
	Template:       testCaseTemplate,
	InputVariables: []string{"docs", "html"},
	TemplateFormat: prompts.TemplateFormatGoTemplate,
}

var scriptPrompt = prompts.PromptTemplate{
	Template:       scriptTemplate,
	InputVariables: []string{"test_case_json", "html"},
	TemplateFormat: prompts.TemplateFormatGoTemplate,
}

// BuildTestCasePrompt renders the test-case generation prompt from the
// knowledge-base contents.
func BuildTestCasePrompt(docs, html string) (string, error) {
	rendered, err := testCasePrompt.Format(map[string]any{
		"docs": docs,
		"html": html,
	})
	if err != nil {
		return "", fmt.Errorf("render test case prompt: %w", err)
	}
	return rendered, nil
}

// BuildScriptPrompt renders the script generation prompt for a single test
// case, already serialized as JSON.
func BuildScriptPrompt(testCaseJSON, html string) (string, error) {
	rendered, err := scriptPrompt.Format(map[string]any{
		"test_case_json": testCaseJSON,
		"html":           html,
	})
	if err != nil {
		return "", fmt.Errorf("render script prompt: %w", err)
	}
	return rendered, nil
}
