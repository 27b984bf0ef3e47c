package openai

import "fmt"

const linkResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "url": {
      "type": "string"
    }
  },
  "required": ["url"],
  "additionalProperties": false
}`

const linkPromptTemplate = `You help citizens of Vietnam find the official online page for an administrative procedure.

You will be given the name of a procedure and, when available, its official procedure code.
Return the URL of the official public-service page for that procedure.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Only return URLs on official government domains (for example dichvucong.gov.vn or a provincial .gov.vn portal).
- If you are not certain of the page, return the default URL given below unchanged.
- Never invent procedure codes.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Default URL: %s

Example:
Input: "Cấp giấy khai sinh (code 1.001193)"
Output:
{"url":"https://dichvucong.gov.vn/p/home/dvc-tthc-thu-tuc-hanh-chinh-chi-tiet.html?ma_thu_tuc=1.001193"}`

// buildLinkPrompt creates the system prompt with the generated link as the default answer.
func buildLinkPrompt(generated string) string {
	return fmt.Sprintf(linkPromptTemplate, linkResponseSchema, generated)
}

// buildLinkQuery formats the procedure for the user turn.
func buildLinkQuery(name, code string) string {
	name = scrubString(name)
	if code == "" {
		return name
	}
	return fmt.Sprintf("%s (code %s)", name, code)
}
