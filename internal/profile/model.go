package profile

import (
	"fmt"
	"strings"

	"github.com/vvka-141/definegen/pkg/define"
)

// Model is the standard model family of a study. It decides identifier
// qualification and whether supplemental qualifiers exist.
type Model int

const (
	// SubjectLevel covers tabulation standards (SDTM, SEND).
	SubjectLevel Model = iota
	// Parameter covers analysis standards (ADaM).
	Parameter
)

// ParseModel resolves a StandardType value. When standardType is empty the
// model is inferred from standardName.
func ParseModel(standardType, standardName string) (Model, error) {
	t := strings.ToUpper(strings.TrimSpace(standardType))
	if t == "" {
		n := strings.ToUpper(standardName)
		switch {
		case strings.HasPrefix(n, "ADAM"):
			return Parameter, nil
		case strings.HasPrefix(n, "SDTM"), strings.HasPrefix(n, "SEND"):
			return SubjectLevel, nil
		}
		return SubjectLevel, fmt.Errorf("StandardType is not set and cannot be inferred: %w", define.ErrMissingValue)
	}
	switch t {
	case "SDTM", "SEND":
		return SubjectLevel, nil
	case "ADAM":
		return Parameter, nil
	}
	return SubjectLevel, fmt.Errorf("unknown standard type %q: %w", standardType, define.ErrInvalidConfig)
}

func (m Model) String() string {
	if m == Parameter {
		return "ADaM"
	}
	return "SDTM"
}

// HasSupplementalQualifiers reports whether SUPP-- datasets exist in the model.
func (m Model) HasSupplementalQualifiers() bool { return m == SubjectLevel }

// DefaultPurpose is the ItemGroupDef Purpose when a dataset does not give one.
func (m Model) DefaultPurpose() string {
	if m == Parameter {
		return "Analysis"
	}
	return "Tabulation"
}

// SubjectDataset is the one-record-per-subject dataset of the model.
func (m Model) SubjectDataset() string {
	if m == Parameter {
		return "ADSL"
	}
	return "DM"
}
