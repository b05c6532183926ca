package wizard

import "github.com/mark3labs/beacon/internal/form"

// SubmissionDoneMsg carries the outcome of a submission run off the UI loop.
type SubmissionDoneMsg struct {
	Submission *form.Submission
	Err        error
}

// DescriptionEditedMsg is sent when the external editor returns with new
// description text.
type DescriptionEditedMsg struct {
	Content string
}

// EditorFailedMsg is sent when the external editor could not be run.
type EditorFailedMsg struct {
	Err error
}

// clearToastMsg hides the toast with the given id.
type clearToastMsg struct {
	id int
}
