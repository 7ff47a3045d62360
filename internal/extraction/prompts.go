package extraction

import (
	"fmt"
	"regexp"
	"strings"
)

// Prompts are compile-time constants; booth deployments tune models,
// not wording. {{variable}} slots are filled by Render.

const parseSystemPrompt = `You are extracting sales lead contact details from a trade-show conversation.
You must respond with ONLY a valid JSON object matching this schema:

%s

Use null for anything not clearly stated. Never invent a value. Do not include any text outside the JSON object. No markdown, no explanation.`

const parseUserPrompt = `Extract the contact details from this text:

"""
{{text}}
"""`

const cardSystemPrompt = `You are reading a photographed business card from a trade-show booth.
You must respond with ONLY a valid JSON object matching this schema:

%s

ocr_text must contain every piece of text readable on the card, line by line. Use null for any field the card does not show. Never invent a value. Do not include any text outside the JSON object. No markdown, no explanation.`

const cardUserPrompt = `Read this business card.`

// candidateSchema describes the CandidateFields JSON contract shown
// to the model. Interest doubles as role/title: on cards that is what
// the slot usually holds.
var candidateSchema = []schemaField{
	{Name: "name", Type: "string", Description: "the contact's full name"},
	{Name: "email", Type: "string", Description: "email address exactly as written"},
	{Name: "phone", Type: "string", Description: "phone number exactly as written"},
	{Name: "company", Type: "string", Description: "company or organization"},
	{Name: "interest", Type: "string", Description: "role, title, or the product interest they expressed"},
}

type schemaField struct {
	Name        string
	Type        string
	Description string
}

func buildSchemaDescription(fields []schemaField) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for i, f := range fields {
		fmt.Fprintf(&sb, `  "%s": <%s|null> // %s`, f.Name, f.Type, f.Description)
		if i < len(fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// ParseSystemPrompt is the instruction block for structuring raw
// transcript or OCR text into candidate fields.
func ParseSystemPrompt() string {
	return fmt.Sprintf(parseSystemPrompt, buildSchemaDescription(candidateSchema))
}

// CardSystemPrompt is the instruction block for vision card reading;
// the schema gains an ocr_text slot carrying the raw text dump.
func CardSystemPrompt() string {
	schema := append(append([]schemaField{}, candidateSchema...), schemaField{
		Name: "ocr_text", Type: "string", Description: "all text visible on the card",
	})
	return fmt.Sprintf(cardSystemPrompt, buildSchemaDescription(schema))
}

// CardUserPrompt accompanies the card image.
func CardUserPrompt() string { return cardUserPrompt }

// ParseUserPrompt wraps the raw text for the parse call.
func ParseUserPrompt(text string) string {
	out, _ := Render(parseUserPrompt, map[string]string{"text": text})
	return out
}

var variablePattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Render replaces {{variable}} placeholders in the template with values from vars.
func Render(template string, vars map[string]string) (string, error) {
	var missing []string
	for _, v := range extractVariables(template) {
		if _, ok := vars[v]; !ok {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("missing template variables: %s", strings.Join(missing, ", "))
	}

	result := variablePattern.ReplaceAllStringFunc(template, func(match string) string {
		key := match[2 : len(match)-2] // strip {{ and }}
		if val, ok := vars[key]; ok {
			return val
		}
		return match
	})

	return result, nil
}

func extractVariables(template string) []string {
	matches := variablePattern.FindAllStringSubmatch(template, -1)
	seen := make(map[string]bool)
	var vars []string
	for _, m := range matches {
		if len(m) > 1 && !seen[m[1]] {
			vars = append(vars, m[1])
			seen[m[1]] = true
		}
	}
	return vars
}
