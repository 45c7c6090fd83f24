package prompts

import (
	"fmt"
	"strings"
)

const conversionFile = "conversion.json"

// Template keys in conversion.json.
const (
	KeyResumeReformat          = "resume-reformat"
	KeyCoverLetter             = "cover-letter"
	KeyCoverLetterJob          = "cover-letter-job"
	KeyCoverLetterOrganization = "cover-letter-organization"
)

// ResumeSections are the sections the reformat prompt asks for, in order.
var ResumeSections = []string{
	"A two-paragraph summary",
	"Education",
	"Experience",
	"Familiar Technologies",
}

// Delimiters that structure the prompts. Embedded text containing any of them
// can change how the model reads the prompt.
var Delimiters = []string{"<resume>", "</resume>", "<job>", "</job>"}

// BuildResumePrompt asks the model to reformat resumeText into ResumeSections.
// The text is embedded verbatim between <resume> tags; nothing is escaped.
func BuildResumePrompt(resumeText string) string {
	return Format(MustGet(conversionFile, KeyResumeReformat), map[string]string{
		"Resume": resumeText,
	})
}

// BuildCoverLetterPrompt asks the model for a cover letter pitching the
// candidate in resumeText for the fixed job description.
func BuildCoverLetterPrompt(resumeText string) string {
	return Format(MustGet(conversionFile, KeyCoverLetter), map[string]string{
		"Organization": MustGet(conversionFile, KeyCoverLetterOrganization),
		"Job":          MustGet(conversionFile, KeyCoverLetterJob),
		"Resume":       resumeText,
	})
}

// DelimiterError reports embedded text that contains prompt delimiters.
type DelimiterError struct {
	Found []string
}

func (e *DelimiterError) Error() string {
	return fmt.Sprintf("embedded text contains prompt delimiters: %s", strings.Join(e.Found, ", "))
}

// CheckEmbeddable returns a *DelimiterError if text contains any of Delimiters,
// compared case-insensitively.
func CheckEmbeddable(text string) error {
	lower := strings.ToLower(text)

	var found []string
	for _, delim := range Delimiters {
		if strings.Contains(lower, delim) {
			found = append(found, delim)
		}
	}
	if len(found) > 0 {
		return &DelimiterError{Found: found}
	}
	return nil
}
