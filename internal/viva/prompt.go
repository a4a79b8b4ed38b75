package viva

const vivaPrompt = `You are a smart viva assistant.
From the content provided, generate 15–20 questions that test understanding, application, and reasoning.
Classify them by difficulty: easy, medium, hard.
Return only a structured list of questions as strings.
Do not include any additional text or instructions.
`

const hintPrompt = "Give the user a hint about the topic if no content is provided. Provide output as a list of questions."

// BuildPrompt returns the full prompt sent to the model. Without content the
// model is asked for hint questions instead.
func BuildPrompt(c Content) string {
	if !c.HasContent() {
		return hintPrompt
	}
	return vivaPrompt + "\n\nContent:\n" + c.Text
}
