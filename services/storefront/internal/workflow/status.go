package workflow

// Outcome is the result of one Submit call
type Outcome int

const (
	// OutcomeBusy means a submission was already running; nothing was sent
	OutcomeBusy Outcome = iota
	// OutcomeRejected means validation failed; field errors are on the draft
	OutcomeRejected
	OutcomeCreated
	// OutcomeFailed means the catalog or the image storage refused; see Err
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBusy:
		return "busy"
	case OutcomeRejected:
		return "rejected"
	case OutcomeCreated:
		return "created"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// StatusKind enumerates the screen-level submission status
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusLoading
	StatusError
	StatusSuccess
)

// SubmissionStatus is derived from the loading, error and creation flags
type SubmissionStatus struct {
	Kind    StatusKind
	Message string
}

// Status folds the observable flags into one value. Loading wins over a
// stale error, and an error wins over an unacknowledged success.
func (w *Workflow) Status() SubmissionStatus {
	switch {
	case w.Loading.Get():
		return SubmissionStatus{Kind: StatusLoading}
	case w.Err.Get() != "":
		return SubmissionStatus{Kind: StatusError, Message: w.Err.Get()}
	case w.Created.Get():
		return SubmissionStatus{Kind: StatusSuccess}
	default:
		return SubmissionStatus{Kind: StatusIdle}
	}
}
