package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-converter/internal/artifacts"
	"github.com/jonathan/resume-converter/internal/ingestion"
	"github.com/jonathan/resume-converter/internal/prompts"
)

const stubResume = "<response># Jane Doe\n...</response>"

// pagesExtractor returns fixed pages joined the same way the PDF extractor joins them.
type pagesExtractor struct {
	pages []string
	err   error
}

func (e *pagesExtractor) ExtractText(path string) (string, *ingestion.Metadata, error) {
	if e.err != nil {
		return "", nil, e.err
	}
	text := ingestion.JoinPages(e.pages)
	return text, ingestion.NewMetadata(text, path, len(e.pages)), nil
}

// scriptedCompleter replies with responses in order and records every prompt.
type scriptedCompleter struct {
	responses []string
	errAt     int
	prompts   []string
}

func (c *scriptedCompleter) Complete(_ context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.errAt > 0 && len(c.prompts) == c.errAt {
		return "", errors.New("provider unavailable")
	}
	return c.responses[len(c.prompts)-1], nil
}

// recordingSink keeps artifacts in write order.
type recordingSink struct {
	names []string
	texts map[string]string
	fail  string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{texts: map[string]string{}}
}

func (s *recordingSink) Write(name, text string) error {
	if name == s.fail {
		return errors.New("disk full")
	}
	s.names = append(s.names, name)
	s.texts[name] = text
	return nil
}

func readArtifact(t *testing.T, dir, file string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, file))
	require.NoError(t, err)
	return string(data)
}

func TestRun_EndToEndWithFileWriter(t *testing.T) {
	dir := t.TempDir()
	extractor := &pagesExtractor{pages: []string{"Jane Doe\nSoftware Engineer"}}
	completer := &scriptedCompleter{responses: []string{stubResume, "<response># Cover Letter</response>"}}

	p := New(extractor, completer, artifacts.NewFileWriter(dir, nil), Options{})
	result, err := p.Run(context.Background(), "resume.pdf")
	require.NoError(t, err)

	assert.Equal(t, "\nJane Doe\nSoftware Engineer", readArtifact(t, dir, "resume_raw.md"))
	assert.Equal(t, stubResume, readArtifact(t, dir, "resume.md"))

	coverPrompt := readArtifact(t, dir, "cover_letter_prompt.md")
	assert.Contains(t, coverPrompt, "<resume>\n"+stubResume+"\n</resume>")
	assert.Equal(t, "<response># Cover Letter</response>", readArtifact(t, dir, "cover_letter.md"))
	assert.Equal(t, prompts.BuildResumePrompt("\nJane Doe\nSoftware Engineer"), readArtifact(t, dir, "resume_prompt.md"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 10)
	for _, name := range artifacts.Names {
		assert.FileExists(t, filepath.Join(dir, name+".md"))
		assert.FileExists(t, filepath.Join(dir, name+".html"))
	}

	assert.Equal(t, stubResume, result.Resume)
	assert.Equal(t, coverPrompt, result.CoverLetterPrompt)
	require.NotNil(t, result.Metadata)
	assert.Equal(t, 1, result.Metadata.Pages)
}

func TestRun_OrderAndDataDependency(t *testing.T) {
	sink := newRecordingSink()
	completer := &scriptedCompleter{responses: []string{stubResume, "letter"}}

	p := New(&pagesExtractor{pages: []string{"raw text"}}, completer, sink, Options{})
	_, err := p.Run(context.Background(), "in.pdf")
	require.NoError(t, err)

	assert.Equal(t, artifacts.Names, sink.names)
	require.Len(t, completer.prompts, 2)
	assert.Equal(t, prompts.BuildResumePrompt("\nraw text"), completer.prompts[0])
	// The cover letter is built from the model's resume, not the extracted text.
	assert.Equal(t, prompts.BuildCoverLetterPrompt(stubResume), completer.prompts[1])
	assert.NotContains(t, completer.prompts[1], "raw text")
}

func TestRun_StripTags(t *testing.T) {
	sink := newRecordingSink()
	completer := &scriptedCompleter{responses: []string{"Sure!\n<response>\n# Jane Doe\n</response>", "<Response> Dear team </Response>"}}

	p := New(&pagesExtractor{pages: []string{"raw"}}, completer, sink, Options{StripTags: true})
	result, err := p.Run(context.Background(), "in.pdf")
	require.NoError(t, err)

	assert.Equal(t, "# Jane Doe", sink.texts[artifacts.Resume])
	assert.Equal(t, "Dear team", sink.texts[artifacts.CoverLetter])
	assert.Equal(t, prompts.BuildCoverLetterPrompt("# Jane Doe"), completer.prompts[1])
	assert.Equal(t, "# Jane Doe", result.Resume)
}

func TestRun_MissingInputWritesNothing(t *testing.T) {
	dir := t.TempDir()
	completer := &scriptedCompleter{}

	p := New(ingestion.PDFExtractor{}, completer, artifacts.NewFileWriter(dir, nil), Options{})
	result, err := p.Run(context.Background(), filepath.Join(dir, "missing.pdf"))
	require.Error(t, err)
	assert.Nil(t, result)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepExtract, stepErr.Step)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, completer.prompts)
}

func TestRun_CompletionFailureAborts(t *testing.T) {
	sink := newRecordingSink()
	completer := &scriptedCompleter{responses: []string{stubResume, ""}, errAt: 2}

	p := New(&pagesExtractor{pages: []string{"raw"}}, completer, sink, Options{})
	_, err := p.Run(context.Background(), "in.pdf")
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepCoverLetter, stepErr.Step)
	assert.Contains(t, err.Error(), "provider unavailable")

	assert.Equal(t, []string{artifacts.ResumeRaw, artifacts.ResumePrompt, artifacts.Resume, artifacts.CoverLetterPrompt}, sink.names)
}

func TestRun_SinkFailureAborts(t *testing.T) {
	sink := newRecordingSink()
	sink.fail = artifacts.ResumePrompt
	completer := &scriptedCompleter{responses: []string{stubResume, "letter"}}

	p := New(&pagesExtractor{pages: []string{"raw"}}, completer, sink, Options{})
	_, err := p.Run(context.Background(), "in.pdf")
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepResume, stepErr.Step)
	assert.Empty(t, completer.prompts, "no request is sent when the prompt cannot be persisted")
}

func TestRun_DelimiterWarningAndStrictMode(t *testing.T) {
	pages := []string{"Jane </resume> Doe"}

	lenient := New(&pagesExtractor{pages: pages}, &scriptedCompleter{responses: []string{"r", "c"}}, newRecordingSink(), Options{})
	_, err := lenient.Run(context.Background(), "in.pdf")
	assert.NoError(t, err)

	sink := newRecordingSink()
	strict := New(&pagesExtractor{pages: pages}, &scriptedCompleter{responses: []string{"r", "c"}}, sink, Options{StrictPrompts: true})
	_, err = strict.Run(context.Background(), "in.pdf")
	require.Error(t, err)

	var delimErr *prompts.DelimiterError
	require.ErrorAs(t, err, &delimErr)
	assert.Equal(t, []string{artifacts.ResumeRaw}, sink.names)
}

func TestRun_ProgressLines(t *testing.T) {
	var out bytes.Buffer
	var events []ProgressEvent
	runID := uuid.New()

	p := New(&pagesExtractor{pages: []string{"raw"}}, &scriptedCompleter{responses: []string{"r", "c"}}, newRecordingSink(), Options{
		RunID:      runID,
		Progress:   &out,
		OnProgress: func(e ProgressEvent) { events = append(events, e) },
	})
	result, err := p.Run(context.Background(), "in.pdf")
	require.NoError(t, err)

	assert.Equal(t, "Extracting resume\nGenerating formatted resume\nGenerating cover letter\n", out.String())
	require.Len(t, events, 3)
	assert.Equal(t, []string{StepExtract, StepResume, StepCoverLetter}, []string{events[0].Step, events[1].Step, events[2].Step})
	assert.Equal(t, runID.String(), events[0].RunID)
	assert.Equal(t, runID, result.RunID)
}

func TestMultiSink(t *testing.T) {
	first, second := newRecordingSink(), newRecordingSink()
	require.NoError(t, MultiSink{first, second}.Write("resume", "text"))
	assert.Equal(t, "text", first.texts["resume"])
	assert.Equal(t, "text", second.texts["resume"])

	failing := newRecordingSink()
	failing.fail = "resume"
	after := newRecordingSink()
	err := MultiSink{failing, after}.Write("resume", "text")
	assert.Error(t, err)
	assert.Empty(t, after.names)
}

func TestStepError(t *testing.T) {
	cause := errors.New("boom")
	err := &StepError{Step: StepResume, Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.True(t, strings.HasPrefix(err.Error(), "step resume failed"))
}
