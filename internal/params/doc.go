// Package params parses STUDY property overrides given on the command
// line (--set key=value) or in a dotenv-style file (--set-file).
//
// Property names are matched case-insensitively against the STUDY table
// vocabulary and returned in their canonical spelling, so that
// "studyname=X" and "StudyName=X" override the same property.
//
// # Example Usage
//
//	overrides, err := params.ParseKeyValuePairs([]string{"StudyName=CDISC01"})
//	if err != nil {
//	    return err
//	}
//	file, err := params.ReadFile("study.env")
//	...
//	merged := params.Merge(cfg.Study, file, overrides)
package params
