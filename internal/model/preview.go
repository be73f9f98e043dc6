package model

import "fmt"

// DiagnosisKind is the verdict for a single preview row.
type DiagnosisKind string

const (
	DiagUnchanged   DiagnosisKind = "unchanged"
	DiagValid       DiagnosisKind = "valid"
	DiagInvalid     DiagnosisKind = "invalid"
	DiagDuplicateOf DiagnosisKind = "duplicate_of"
)

// Diagnosis is the per-row preview verdict. Reason is populated for
// DiagInvalid (e.g. "missing:camera_model", "illegal_char:?",
// "bad_pattern"); DuplicateOf is populated for DiagDuplicateOf and may
// be the sentinel ExistingFileSentinel when the conflict is against a
// file on disk that isn't part of the batch.
type Diagnosis struct {
	Kind        DiagnosisKind
	Reason      string
	DuplicateOf string
}

// ExistingFileSentinel marks a DiagDuplicateOf conflict against a file
// already on disk, outside the batch, rather than another row.
const ExistingFileSentinel = "<existing-file>"

func Unchanged() Diagnosis { return Diagnosis{Kind: DiagUnchanged} }
func Valid() Diagnosis     { return Diagnosis{Kind: DiagValid} }

func Invalid(reason string) Diagnosis {
	return Diagnosis{Kind: DiagInvalid, Reason: reason}
}

func InvalidMissingField(fieldKey string) Diagnosis {
	return Invalid(fmt.Sprintf("missing:%s", fieldKey))
}

func DuplicateOf(path string) Diagnosis {
	return Diagnosis{Kind: DiagDuplicateOf, DuplicateOf: path}
}

// PreviewRow is the composed, diagnosed result for one source file.
type PreviewRow struct {
	SourcePath         string
	ProposedBaseName   string
	ProposedExtension  string
	Diagnosis          Diagnosis
}

// ProposedName joins the base name and extension the way the final
// rename target will be constructed.
func (r PreviewRow) ProposedName() string {
	if r.ProposedExtension == "" {
		return r.ProposedBaseName
	}
	return r.ProposedBaseName + "." + r.ProposedExtension
}
