package model

// Study carries the document-level properties. It is a singleton built
// from the STUDY property table.
type Study struct {
	StudyName                  string
	StudyDescription           string
	ProtocolName               string
	DefineVersion              string
	StandardType               string
	StandardName               string
	StandardVersion            string
	FileOID                    string
	StudyOID                   string
	MetaDataVersionOID         string
	MetaDataVersionName        string
	MetaDataVersionDescription string
	Originator                 string
	SourceSystem               string
	SourceSystemVersion        string
	CreationDateTime           string
	Context                    string
	Stylesheet                 string
	Language                   string
	CommentOID                 string
}

// StudyProperty binds a STUDY table property name to the field it populates.
type StudyProperty struct {
	Name  string
	Field func(*Study) *string
}

// StudyProperties lists every recognised STUDY table property.
var StudyProperties = []StudyProperty{
	{"StudyName", func(s *Study) *string { return &s.StudyName }},
	{"StudyDescription", func(s *Study) *string { return &s.StudyDescription }},
	{"ProtocolName", func(s *Study) *string { return &s.ProtocolName }},
	{"DefineVersion", func(s *Study) *string { return &s.DefineVersion }},
	{"StandardType", func(s *Study) *string { return &s.StandardType }},
	{"StandardName", func(s *Study) *string { return &s.StandardName }},
	{"StandardVersion", func(s *Study) *string { return &s.StandardVersion }},
	{"FileOID", func(s *Study) *string { return &s.FileOID }},
	{"StudyOID", func(s *Study) *string { return &s.StudyOID }},
	{"MetaDataVersionOID", func(s *Study) *string { return &s.MetaDataVersionOID }},
	{"MetaDataVersionName", func(s *Study) *string { return &s.MetaDataVersionName }},
	{"MetaDataVersionDescription", func(s *Study) *string { return &s.MetaDataVersionDescription }},
	{"Originator", func(s *Study) *string { return &s.Originator }},
	{"SourceSystem", func(s *Study) *string { return &s.SourceSystem }},
	{"SourceSystemVersion", func(s *Study) *string { return &s.SourceSystemVersion }},
	{"CreationDateTime", func(s *Study) *string { return &s.CreationDateTime }},
	{"Context", func(s *Study) *string { return &s.Context }},
	{"Stylesheet", func(s *Study) *string { return &s.Stylesheet }},
	{"Language", func(s *Study) *string { return &s.Language }},
	{"Comment ID", func(s *Study) *string { return &s.CommentOID }},
}

// LookupStudyProperty finds a property by name, ignoring case.
func LookupStudyProperty(name string) (StudyProperty, bool) {
	for _, p := range StudyProperties {
		if equalFold(p.Name, name) {
			return p, true
		}
	}
	return StudyProperty{}, false
}
