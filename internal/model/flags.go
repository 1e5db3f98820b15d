package model

import "strings"

// YesNo is a tri-state flag: unset, Yes or No.
type YesNo string

const (
	Unset YesNo = ""
	Yes   YesNo = "Yes"
	No    YesNo = "No"
)

// ParseYesNo accepts the spellings found in spreadsheet exports.
// The second result is false when s is not a recognised flag.
func ParseYesNo(s string) (YesNo, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Unset, true
	case "y", "yes", "true", "1":
		return Yes, true
	case "n", "no", "false", "0":
		return No, true
	}
	return Unset, false
}

// IsYes reports whether the flag is explicitly Yes.
func (f YesNo) IsYes() bool { return f == Yes }

// Or returns f, or def when f is unset.
func (f YesNo) Or(def YesNo) YesNo {
	if f == Unset {
		return def
	}
	return f
}

// FromBool converts a boolean into an explicit Yes/No.
func FromBool(b bool) YesNo {
	if b {
		return Yes
	}
	return No
}
