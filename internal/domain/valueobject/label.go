package valueobject

import "fmt"

// Label is the classifier's verdict for a transaction.
type Label struct {
	value string
}

var (
	LabelNotFraud = Label{value: "NOT_FRAUD"}
	LabelFraud    = Label{value: "FRAUD"}
)

// LabelFromClass maps a class index (0 safe, 1 fraud).
func LabelFromClass(class int) (Label, error) {
	switch class {
	case 0:
		return LabelNotFraud, nil
	case 1:
		return LabelFraud, nil
	default:
		return Label{}, fmt.Errorf("invalid class index: %d", class)
	}
}

// LabelFromString reconstructs a Label from its string representation.
func LabelFromString(s string) (Label, error) {
	switch s {
	case "NOT_FRAUD":
		return LabelNotFraud, nil
	case "FRAUD":
		return LabelFraud, nil
	default:
		return Label{}, fmt.Errorf("invalid label: %s", s)
	}
}

// String returns the string representation.
func (l Label) String() string { return l.value }

// IsFraud returns true for the positive class.
func (l Label) IsFraud() bool { return l.value == "FRAUD" }

// Class returns 1 for fraud and 0 otherwise.
func (l Label) Class() int {
	if l.IsFraud() {
		return 1
	}
	return 0
}

// Recommendation is the operator guidance attached to the label.
func (l Label) Recommendation() string {
	if l.IsFraud() {
		return "Review this transaction manually and verify it with the account holder before processing."
	}
	return "Transaction looks legitimate and can be processed normally."
}

// IsZero returns true if the Label has not been set.
func (l Label) IsZero() bool { return l.value == "" }
