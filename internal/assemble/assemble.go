package assemble

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/definegen/internal/graph"
	"github.com/vvka-141/definegen/internal/model"
	"github.com/vvka-141/definegen/internal/oid"
	"github.com/vvka-141/definegen/internal/profile"
	"github.com/vvka-141/definegen/internal/supp"
	"github.com/vvka-141/definegen/internal/xmltree"
	"github.com/vvka-141/definegen/pkg/define"
)

// Kind ranks of MetaDataVersion children.
const (
	rankStandards = iota
	rankAnnotatedCRF
	rankSupplementalDoc
	rankValueList
	rankWhereClause
	rankItemGroup
	rankItem
	rankCodelist
	rankMethod
	rankComment
	rankLeaf
	rankAnalysis
)

// ODM root constants.
const (
	ODMVersion      = "1.3.2"
	FileType        = "Snapshot"
	DefaultContext  = "Other"
	timestampLayout = "2006-01-02T15:04:05"
)

// Options controls document-level values not taken from the graph.
type Options struct {
	// Now supplies CreationDateTime when the study does not set one.
	Now func() time.Time
	// SourceSystemVersion is reported when the study does not name one.
	SourceSystemVersion string
}

type child struct {
	rank int
	el   *xmltree.Element
}

type builder struct {
	g    *graph.Graph
	v    *view
	keep *Reachable
	p    profile.Profile
	lang string

	children []child
	items    map[string]bool
}

// Assemble builds the ODM element tree. keep is the result of Prune over
// the same graph and rendered definitions.
func Assemble(g *graph.Graph, r *supp.Rendered, keep *Reachable, opts Options) (*xmltree.Element, error) {
	b := &builder{
		g:     g,
		v:     newView(g, r),
		keep:  keep,
		p:     g.Profile,
		lang:  firstNonEmpty(g.Study.Language, define.DefaultLanguage),
		items: make(map[string]bool),
	}
	if b.keep == nil {
		b.keep = prune(b.v, nopLogger{})
	}
	mdv, err := b.metaDataVersion()
	if err != nil {
		return nil, err
	}

	s := g.Study
	created := s.CreationDateTime
	if created == "" {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		created = now().UTC().Format(timestampLayout)
	}

	root := xmltree.New("ODM").
		Attr("xmlns", profile.NamespaceODM).
		Attr("xmlns:xlink", profile.NamespaceXLink).
		Attr("xmlns:def", b.p.DefNamespace())
	if b.v.arm {
		root.Attr("xmlns:arm", profile.NamespaceARM)
	}
	root.Attr("ODMVersion", ODMVersion).
		Attr("FileType", FileType).
		Attr("FileOID", s.FileOID).
		Attr("CreationDateTime", created).
		Attr("Originator", s.Originator).
		Attr("SourceSystem", firstNonEmpty(s.SourceSystem, define.SourceSystem)).
		Attr("SourceSystemVersion", firstNonEmpty(s.SourceSystemVersion, opts.SourceSystemVersion))
	if b.p.HasContext() {
		root.Attr("def:Context", firstNonEmpty(s.Context, DefaultContext))
	}

	study := xmltree.New("Study").Attr("OID", s.StudyOID).Add(
		xmltree.New("GlobalVariables").Add(
			xmltree.New("StudyName").SetText(s.StudyName),
			xmltree.New("StudyDescription").SetText(firstNonEmpty(s.StudyDescription, s.StudyName)),
			xmltree.New("ProtocolName").SetText(firstNonEmpty(s.ProtocolName, s.StudyName)),
		),
		mdv,
	)
	return root.Add(study), nil
}

func (b *builder) metaDataVersion() (*xmltree.Element, error) {
	s := b.g.Study
	mdv := xmltree.New("MetaDataVersion").
		Attr("OID", s.MetaDataVersionOID).
		Attr("Name", s.MetaDataVersionName).
		Attr("Description", s.MetaDataVersionDescription).
		Attr("def:DefineVersion", b.p.Version())
	if b.p.StandardOnMetaDataVersion() {
		mdv.Attr("def:StandardName", s.StandardName).Attr("def:StandardVersion", s.StandardVersion)
	}
	if b.p.MetaDataVersionComment() {
		mdv.Attr("def:CommentOID", s.CommentOID)
	}

	b.standards()
	b.documents()
	if err := b.datasets(); err != nil {
		return nil, err
	}
	if err := b.valueLists(); err != nil {
		return nil, err
	}
	if err := b.whereClauses(); err != nil {
		return nil, err
	}
	if err := b.analysisResults(); err != nil {
		return nil, err
	}
	b.codelists()
	b.methods()
	b.comments()
	b.leaves()

	sort.SliceStable(b.children, func(i, j int) bool { return b.children[i].rank < b.children[j].rank })
	for _, c := range b.children {
		mdv.Add(c.el)
	}
	return mdv, nil
}

func (b *builder) emit(rank int, el *xmltree.Element) {
	b.children = append(b.children, child{rank: rank, el: el})
}

func (b *builder) standards() {
	if !b.p.HasStandardsCatalogue() || len(b.g.Standards) == 0 {
		return
	}
	el := xmltree.New("def:Standards")
	for _, s := range b.g.SortedStandards() {
		el.Add(xmltree.New("def:Standard").
			Attr("OID", s.OID).
			Attr("Name", s.Name).
			Attr("Type", s.Type).
			Attr("PublishingSet", s.PublishingSet).
			Attr("Version", s.Version).
			Attr("Status", s.Status).
			Attr("def:CommentOID", s.CommentOID))
	}
	b.emit(rankStandards, el)
}

func (b *builder) documents() {
	refs := map[model.DocumentType]*xmltree.Element{}
	for _, d := range b.g.SortedDocuments() {
		var name string
		var rank int
		switch d.Type {
		case model.AnnotatedCRF:
			name, rank = "def:AnnotatedCRF", rankAnnotatedCRF
		case model.SupplementalDoc:
			name, rank = "def:SupplementalDoc", rankSupplementalDoc
		default:
			continue
		}
		el, ok := refs[d.Type]
		if !ok {
			el = xmltree.New(name)
			refs[d.Type] = el
			b.emit(rank, el)
		}
		el.Add(xmltree.New("def:DocumentRef").Attr("leafID", d.OID))
	}
}

func (b *builder) leaves() {
	for _, d := range b.g.SortedDocuments() {
		b.emit(rankLeaf, leaf(d.OID, d.Href, firstNonEmpty(d.Title, d.Href)))
	}
}

func leaf(id, href, title string) *xmltree.Element {
	return xmltree.New("def:leaf").Attr("ID", id).Attr("xlink:href", href).Add(
		xmltree.New("def:title").SetText(title),
	)
}

func (b *builder) datasets() error {
	for _, d := range b.v.datasets {
		el, err := b.itemGroup(d)
		if err != nil {
			return err
		}
		b.emit(rankItemGroup, el)
		for _, x := range b.v.itemRefs[d.Name] {
			if err := b.variableItem(x); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) itemGroup(d *model.Dataset) (*xmltree.Element, error) {
	leafID, err := oid.Leaf(d.Name)
	if err != nil {
		return nil, &define.FieldError{Tag: "ItemGroupDef", Dataset: d.Name, Field: "def:ArchiveLocationID", Reason: define.ReasonInvalid, Err: err}
	}
	m := b.g.Model
	repeating := model.Yes
	if d.DomainOrName() == m.SubjectDataset() {
		repeating = model.No
	}
	href := d.Href
	if href == "" {
		href = strings.ToLower(d.Name) + ".xpt"
	}

	el := xmltree.New("ItemGroupDef").
		Attr("OID", d.OID).
		Attr("Name", d.Name).
		Attr("Repeating", string(d.Repeating.Or(repeating))).
		Attr("IsReferenceData", string(d.IsReferenceData.Or(model.No))).
		Attr("SASDatasetName", d.Name)
	if m.HasSupplementalQualifiers() {
		el.Attr("Domain", d.Domain)
	}
	el.Attr("Purpose", firstNonEmpty(d.Purpose, m.DefaultPurpose())).
		Attr("def:Structure", d.Structure)
	if !b.p.NestedClass() {
		el.Attr("def:Class", d.Class)
	}
	el.Attr("def:ArchiveLocationID", leafID).
		Attr("def:CommentOID", d.CommentOID)
	if b.p.AnnotatesNonStandard() {
		el.Attr("def:IsNonStandard", yesOnly(d.IsNonStandard))
	}
	if b.p.HasStandardsCatalogue() {
		el.Attr("def:StandardOID", d.StandardOID)
	}
	if !b.p.OmitsNoData() {
		el.Attr("def:HasNoData", yesOnly(d.HasNoData))
	}

	el.Add(b.description(d.Description))
	for i, x := range b.v.itemRefs[d.Name] {
		el.Add(b.itemRef(x, i+1))
	}
	if b.p.NestedClass() && d.Class != "" {
		class := xmltree.New("def:Class").Attr("Name", d.Class)
		if d.SubClass != "" {
			class.Add(xmltree.New("def:SubClass").Attr("Name", d.SubClass))
		}
		el.Add(class)
	}
	el.Add(leaf(leafID, href, href))
	return el, nil
}

func (b *builder) itemRef(x *model.Variable, order int) *xmltree.Element {
	el := xmltree.New("ItemRef").
		Attr("ItemOID", x.OID).
		Attr("OrderNumber", strconv.Itoa(order)).
		Attr("Mandatory", string(x.Mandatory.Or(model.No)))
	if x.KeySequence > 0 {
		el.Attr("KeySequence", strconv.Itoa(x.KeySequence))
	}
	el.Attr("MethodOID", x.MethodOID).Attr("Role", x.Role)
	b.annotate(el, x.Descriptor)
	return el
}

// annotate adds the 2.1 item flags.
func (b *builder) annotate(el *xmltree.Element, d model.Descriptor) {
	if b.p.AnnotatesNonStandard() {
		el.Attr("def:IsNonStandard", yesOnly(d.IsNonStandard))
	}
	if !b.p.OmitsNoData() {
		el.Attr("def:HasNoData", yesOnly(d.HasNoData))
	}
}

func (b *builder) variableItem(x *model.Variable) error {
	if b.items[x.OID] {
		return nil
	}
	b.items[x.OID] = true
	vl := ""
	if x.ValueListOID != "" && b.v.hasValueList(x.ValueListOID) {
		vl = x.ValueListOID
	}
	el, err := b.itemDef(x.OID, x.Name, firstNonEmpty(x.SASFieldName, x.Name), x.Descriptor, vl)
	if err != nil {
		return located(err, x.Dataset, x.Name, "")
	}
	b.emit(rankItem, el)
	return nil
}

func (b *builder) itemDef(id, name, sasName string, d model.Descriptor, valueList string) (*xmltree.Element, error) {
	el := xmltree.New("ItemDef").
		Attr("OID", id).
		Attr("Name", name).
		Attr("DataType", d.DataType)
	if d.Length > 0 {
		el.Attr("Length", strconv.Itoa(d.Length))
	}
	if d.SignificantDigits > 0 {
		el.Attr("SignificantDigits", strconv.Itoa(d.SignificantDigits))
	}
	el.Attr("SASFieldName", sasName).
		Attr("def:DisplayFormat", d.DisplayFormat).
		Attr("def:CommentOID", d.CommentOID)

	el.Add(b.description(d.Label))
	if d.Codelist != "" {
		el.Add(xmltree.New("CodeListRef").Attr("CodeListOID", b.codelistOID(d.Codelist)))
	}
	origin, err := b.origin(d.Origin)
	if err != nil {
		return nil, err
	}
	el.Add(origin)
	if valueList != "" {
		el.Add(xmltree.New("def:ValueListRef").Attr("ValueListOID", valueList))
	}
	return el, nil
}

func (b *builder) origin(o model.Origin) (*xmltree.Element, error) {
	if o.Type == "" {
		return nil, nil
	}
	typ, source, err := b.p.Origin(o.Type, o.Source)
	if err != nil {
		return nil, &define.FieldError{Tag: "def:Origin", Field: "Type", Param: b.p.String(), Reason: define.ReasonInvalid, Err: err}
	}
	el := xmltree.New("def:Origin").Attr("Type", typ).Attr("Source", source)
	el.Add(b.description(o.Predecessor))
	if !o.Pages.IsZero() {
		el.Add(documentRef(o.Pages))
	}
	return el, nil
}

func (b *builder) codelistOID(id string) string {
	if cl, ok := b.g.Codelists[id]; ok {
		return cl.OID
	}
	if d, ok := b.g.Dictionaries[id]; ok {
		return d.OID
	}
	return id
}

func (b *builder) valueLists() error {
	var items []*model.Value
	for _, vl := range b.v.valueLists {
		el := xmltree.New("def:ValueListDef").Attr("OID", vl.oid)
		for i, val := range vl.values {
			ref := xmltree.New("ItemRef").
				Attr("ItemOID", val.OID).
				Attr("OrderNumber", strconv.Itoa(i+1)).
				Attr("Mandatory", string(val.Mandatory.Or(model.No))).
				Attr("MethodOID", val.MethodOID)
			b.annotate(ref, val.Descriptor)
			for _, wc := range val.WhereClauseOIDs {
				ref.Add(xmltree.New("def:WhereClauseRef").Attr("WhereClauseOID", wc))
			}
			el.Add(ref)
			items = append(items, val)
		}
		b.emit(rankValueList, el)
	}

	for _, val := range items {
		if b.items[val.OID] {
			continue
		}
		b.items[val.OID] = true
		el, err := b.itemDef(val.OID, val.Name, val.SASFieldName, val.Descriptor, "")
		if err != nil {
			return located(err, val.Dataset, val.Variable, val.Name)
		}
		b.emit(rankItem, el)
	}
	return nil
}

func (b *builder) whereClauses() error {
	for _, wc := range b.v.whereClauses {
		el := xmltree.New("def:WhereClauseDef").Attr("OID", wc.OID).Attr("def:CommentOID", wc.CommentOID)
		for _, c := range wc.Conditions {
			rc := xmltree.New("RangeCheck").
				Attr("Comparator", string(c.Comparator)).
				Attr("SoftHard", "Soft").
				Attr("def:ItemOID", c.ItemOID)
			for _, value := range c.Values {
				rc.Add(xmltree.New("CheckValue").SetText(value))
			}
			el.Add(rc)
			if err := b.referencedItem(c.ItemOID); err != nil {
				return err
			}
		}
		b.emit(rankWhereClause, el)
	}
	return nil
}

// referencedItem emits the ItemDef of an item named by a condition or an
// analysis result when no ItemRef has emitted it yet.
// An unknown id is left for the closure check to report.
func (b *builder) referencedItem(id string) error {
	if b.items[id] {
		return nil
	}
	if x := b.v.item(id); x != nil {
		return b.variableItem(x)
	}
	return nil
}

func (b *builder) codelists() {
	for _, cl := range b.g.SortedCodelists() {
		if !b.keep.Codelists[cl.ID] {
			continue
		}
		el := xmltree.New("CodeList").
			Attr("OID", cl.OID).
			Attr("Name", firstNonEmpty(cl.Name, cl.ID)).
			Attr("DataType", firstNonEmpty(cl.DataType, "text")).
			Attr("SASFormatName", cl.SASFormatName)
		if b.p.AnnotatesNonStandard() {
			el.Attr("def:IsNonStandard", yesOnly(cl.IsNonStandard))
		}
		if b.p.HasStandardsCatalogue() {
			el.Attr("def:StandardOID", cl.StandardOID)
		}
		if b.p.CodelistComment() {
			el.Attr("def:CommentOID", cl.CommentOID)
		}

		terms := b.g.TermsOf(cl.ID)
		decoded := false
		for _, t := range terms {
			if t.Decode != "" {
				decoded = true
				break
			}
		}
		for _, t := range terms {
			el.Add(term(t, decoded, b.translated))
		}
		if cl.Code != "" {
			el.Add(alias(cl.Code))
		}
		b.emit(rankCodelist, el)
	}

	for _, d := range b.g.SortedDictionaries() {
		if !b.keep.Codelists[d.ID] {
			continue
		}
		el := xmltree.New("CodeList").
			Attr("OID", d.OID).
			Attr("Name", firstNonEmpty(d.Name, d.ID)).
			Attr("DataType", firstNonEmpty(d.DataType, "text")).
			Add(xmltree.New("ExternalCodeList").
				Attr("Dictionary", firstNonEmpty(d.Name, d.ID)).
				Attr("Version", d.Version).
				Attr("ref", d.Ref).
				Attr("href", d.Href))
		b.emit(rankCodelist, el)
	}
}

func term(t *model.Term, decoded bool, translated func(string) *xmltree.Element) *xmltree.Element {
	name := "EnumeratedItem"
	if decoded {
		name = "CodeListItem"
	}
	el := xmltree.New(name).Attr("CodedValue", t.SubmissionValue)
	if t.Order > 0 {
		el.Attr("OrderNumber", strconv.Itoa(t.Order))
	}
	if t.Rank > 0 {
		el.Attr("Rank", strconv.Itoa(t.Rank))
	}
	el.Attr("def:ExtendedValue", yesOnly(t.ExtendedValue))
	if decoded {
		el.Add(xmltree.New("Decode").Add(translated(firstNonEmpty(t.Decode, t.SubmissionValue))))
	}
	if t.Code != "" {
		el.Add(alias(t.Code))
	}
	return el
}

func alias(code string) *xmltree.Element {
	return xmltree.New("Alias").Attr("Context", "nci:ExtCodeID").Attr("Name", code)
}

func (b *builder) methods() {
	for _, m := range b.g.SortedMethods() {
		if !b.keep.Methods[m.OID] {
			continue
		}
		el := xmltree.New("MethodDef").
			Attr("OID", m.OID).
			Attr("Name", firstNonEmpty(m.Name, m.OID)).
			Attr("Type", m.Type).
			Add(b.description(m.Description))
		if m.ExpressionCode != "" {
			el.Add(xmltree.New("FormalExpression").Attr("Context", m.ExpressionContext).SetText(m.ExpressionCode))
		}
		for _, ref := range m.Documents {
			el.Add(documentRef(ref))
		}
		b.emit(rankMethod, el)
	}
}

func (b *builder) comments() {
	for _, c := range b.g.SortedComments() {
		if !b.keep.Comments[c.OID] {
			continue
		}
		el := xmltree.New("def:CommentDef").Attr("OID", c.OID)
		if c.Description != "" {
			el.Add(xmltree.New("Description").Add(
				xmltree.New("TranslatedText").Attr("xml:lang", firstNonEmpty(c.Language, b.lang)).SetText(c.Description),
			))
		}
		for _, ref := range c.Documents {
			el.Add(documentRef(ref))
		}
		b.emit(rankComment, el)
	}
}

func (b *builder) analysisResults() error {
	if !b.v.arm {
		return nil
	}
	root := xmltree.New("arm:AnalysisResultDisplays")
	for _, d := range b.g.SortedDisplays() {
		display := xmltree.New("arm:ResultDisplay").Attr("OID", d.OID).Attr("Name", d.Name)
		display.Add(b.description(d.Title))
		for _, ref := range d.Documents {
			display.Add(documentRef(ref))
		}
		for _, r := range b.g.ResultsOf(d.Name) {
			el, err := b.analysisResult(r)
			if err != nil {
				return err
			}
			display.Add(el)
		}
		root.Add(display)
	}
	b.emit(rankAnalysis, root)
	return nil
}

func (b *builder) analysisResult(r *model.Result) (*xmltree.Element, error) {
	el := xmltree.New("arm:AnalysisResult").
		Attr("OID", r.OID).
		Attr("ParameterOID", r.ParameterOID).
		Attr("AnalysisReason", r.Reason).
		Attr("AnalysisPurpose", r.Purpose)
	el.Add(b.description(r.Description))
	if r.ParameterOID != "" {
		if err := b.referencedItem(r.ParameterOID); err != nil {
			return nil, err
		}
	}

	datasets := xmltree.New("arm:AnalysisDatasets").Attr("def:CommentOID", r.DatasetsCommentOID)
	for _, a := range b.g.AnalysisDatasetsOf(r.Display, r.ID) {
		ds := xmltree.New("arm:AnalysisDataset").Attr("ItemGroupOID", a.ItemGroupOID)
		if a.WhereClauseOID != "" {
			ds.Add(xmltree.New("def:WhereClauseRef").Attr("WhereClauseOID", a.WhereClauseOID))
		}
		for _, item := range a.VariableOIDs {
			ds.Add(xmltree.New("arm:AnalysisVariable").Attr("ItemOID", item))
			if err := b.referencedItem(item); err != nil {
				return nil, err
			}
		}
		datasets.Add(ds)
	}
	if len(datasets.Children) > 0 {
		el.Add(datasets)
	}

	if r.Documentation != "" || len(r.DocumentationRefs) > 0 {
		doc := xmltree.New("arm:Documentation").Add(b.description(r.Documentation))
		for _, ref := range r.DocumentationRefs {
			doc.Add(documentRef(ref))
		}
		el.Add(doc)
	}
	if r.ProgrammingCode != "" || len(r.ProgrammingRefs) > 0 {
		code := xmltree.New("arm:ProgrammingCode").Attr("Context", r.ProgrammingContext)
		if r.ProgrammingCode != "" {
			code.Add(xmltree.New("arm:Code").SetText(r.ProgrammingCode))
		}
		for _, ref := range r.ProgrammingRefs {
			code.Add(documentRef(ref))
		}
		el.Add(code)
	}
	return el, nil
}

func (b *builder) description(text string) *xmltree.Element {
	if text == "" {
		return nil
	}
	return xmltree.New("Description").Add(b.translated(text))
}

func (b *builder) translated(text string) *xmltree.Element {
	return xmltree.New("TranslatedText").Attr("xml:lang", b.lang).SetText(text)
}

// documentRef renders a document reference. Pages given as "first-last"
// become a FirstPage/LastPage range, anything else a PageRefs list.
func documentRef(ref model.DocumentRef) *xmltree.Element {
	el := xmltree.New("def:DocumentRef").Attr("leafID", ref.LeafOID)
	pages := strings.TrimSpace(ref.Pages)
	if pages == "" {
		return el
	}
	pdf := xmltree.New("def:PDFPageRef")
	if first, last, ok := pageRange(pages); ok {
		pdf.Attr("FirstPage", first).Attr("LastPage", last)
	} else {
		pdf.Attr("PageRefs", strings.Join(strings.Fields(strings.ReplaceAll(pages, ",", " ")), " "))
	}
	pdf.Attr("Type", firstNonEmpty(ref.PageType, "PhysicalRef"))
	return el.Add(pdf)
}

func pageRange(pages string) (string, string, bool) {
	if strings.ContainsAny(pages, ", ") {
		return "", "", false
	}
	first, last, ok := strings.Cut(pages, "-")
	if !ok || first == "" || last == "" {
		return "", "", false
	}
	return first, last, true
}

func yesOnly(f model.YesNo) string {
	if f.IsYes() {
		return string(model.Yes)
	}
	return ""
}

func located(err error, dataset, variable, value string) error {
	var fe *define.FieldError
	if errors.As(err, &fe) {
		fe.Dataset, fe.Variable, fe.Value = dataset, variable, value
		return fe
	}
	return err
}

func firstNonEmpty(v ...string) string {
	for _, s := range v {
		if s != "" {
			return s
		}
	}
	return ""
}

type nopLogger struct{}

func (nopLogger) Verbose(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})    {}
func (nopLogger) Warn(string, ...interface{})    {}
func (nopLogger) Error(string, ...interface{})   {}
