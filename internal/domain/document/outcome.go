package document

// Status is the processing outcome tag.
type Status string

const (
	// StatusPending means ingestion has registered the upload but extraction
	// has not finished yet.
	StatusPending Status = "pending"
	// StatusSuccess means both derived artifacts were written.
	StatusSuccess Status = "success"
	// StatusError means extraction or artifact derivation failed; the
	// original upload is still retained.
	StatusError Status = "error"
)

// Outcome is a tagged variant: pending (zero value), success with artifact
// locations, or error with a message. Artifact fields are only reachable
// through the success constructor, so "artifacts present" and "outcome
// success" cannot diverge.
type Outcome struct {
	status       Status
	textPath     string
	elementsPath string
	elementCount int
	preview      string
	errMessage   string
}

// Succeeded creates a success outcome carrying the derived artifact locations.
func Succeeded(textPath, elementsPath string, elementCount int, preview string) Outcome {
	return Outcome{
		status:       StatusSuccess,
		textPath:     textPath,
		elementsPath: elementsPath,
		elementCount: elementCount,
		preview:      preview,
	}
}

// Failed creates an error outcome carrying the extraction failure reason.
func Failed(message string) Outcome {
	return Outcome{status: StatusError, errMessage: message}
}

// Status returns the outcome tag. The zero value reports StatusPending.
func (o Outcome) Status() Status {
	if o.status == "" {
		return StatusPending
	}
	return o.status
}

// Finalized reports whether the outcome has been assigned.
func (o Outcome) Finalized() bool { return o.status == StatusSuccess || o.status == StatusError }

// Succeeded reports whether processing completed with artifacts.
func (o Outcome) Succeeded() bool { return o.status == StatusSuccess }

// TextPath returns the flattened-text artifact path (success only).
func (o Outcome) TextPath() string { return o.textPath }

// ElementsPath returns the structured-element artifact path (success only).
func (o Outcome) ElementsPath() string { return o.elementsPath }

// ElementCount returns the number of extracted elements (success only).
func (o Outcome) ElementCount() int { return o.elementCount }

// Preview returns the bounded flattened-text prefix (success only).
func (o Outcome) Preview() string { return o.preview }

// ErrMessage returns the captured failure reason (error only).
func (o Outcome) ErrMessage() string { return o.errMessage }
