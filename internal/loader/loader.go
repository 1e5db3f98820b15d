// Package loader turns the logical metadata tables of a source into a
// metadata graph. Every row is read field by field; all failures of a
// table are reported together before the load aborts.
package loader

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/vvka-141/definegen/internal/graph"
	"github.com/vvka-141/definegen/internal/model"
	"github.com/vvka-141/definegen/internal/oid"
	"github.com/vvka-141/definegen/internal/profile"
	"github.com/vvka-141/definegen/internal/source"
	"github.com/vvka-141/definegen/pkg/define"
)

// DefaultDefineVersion is used when neither the configuration nor the
// STUDY table selects a version.
const DefaultDefineVersion = "2.1.0"

// Options override STUDY table settings. Non-empty values win.
type Options struct {
	DefineVersion   string
	StandardType    string
	AnalysisResults bool
	Language        string
	Context         string
	StudyOverrides  map[string]string
	Logger          define.Logger
}

type step struct {
	table string
	q     source.Query
	load  func(n int, r *row)
}

type loader struct {
	r    source.Reader
	opts Options
	g    *graph.Graph
	log  define.Logger
}

// Load reads every table from r and builds the graph.
func Load(ctx context.Context, r source.Reader, opts Options) (*graph.Graph, error) {
	l := &loader{r: r, opts: opts, log: opts.Logger}
	if l.log == nil {
		l.log = nopLogger{}
	}

	study, err := l.loadStudy(ctx)
	if err != nil {
		return nil, err
	}
	p, m, err := resolveProfile(study, opts)
	if err != nil {
		return nil, err
	}
	l.g = graph.New(p, m)
	l.g.Study = study
	l.log.Verbose("loading %s study %q as %s", m, study.StudyName, p)

	steps := []step{
		{source.TableStandard, source.Query{}, l.standard},
		{source.TableDocument, source.Query{Unique: []string{"ID"}}, l.document},
		{source.TableComment, source.Query{}, l.comment},
		{source.TableMethod, source.Query{}, l.method},
		{source.TableCodelist, source.Query{}, l.codelist},
		{source.TableDictionary, source.Query{Unique: []string{"Dictionary ID"}}, l.dictionary},
		{source.TableDataset, source.Query{}, l.dataset},
		{source.TableVariable, source.Query{}, l.variable},
		{source.TableValue, source.Query{Filters: []source.Filter{source.Ne("Value Name", "")}}, l.value},
	}
	if m == profile.Parameter && opts.AnalysisResults {
		steps = append(steps, []step{
			{source.TableDisplay, source.Query{Unique: []string{"Display Name"}}, l.display},
			{source.TableResult, source.Query{}, l.result},
			{source.TableAnalysisDataset, source.Query{}, l.analysisDataset},
		}...)
	}

	for _, s := range steps {
		if err := l.each(ctx, s.table, s.q, s.load); err != nil {
			return nil, err
		}
	}
	if err := l.resolveStandards(); err != nil {
		return nil, err
	}
	return l.g, nil
}

// each reads a table and applies fn to every record. Row numbers are
// 1-based positions in the query result.
func (l *loader) each(ctx context.Context, table string, q source.Query, fn func(n int, r *row)) error {
	records, err := l.r.Read(ctx, table, q)
	if errors.Is(err, define.ErrMissingTable) && !source.Required(table) {
		l.log.Verbose("table %s not present, treating as empty", table)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", table, err)
	}
	l.log.Verbose("table %s: %d rows", table, len(records))

	var errs []error
	for i, rec := range records {
		r := newRow(table, i+1, rec)
		fn(i+1, r)
		errs = append(errs, r.errs...)
	}
	return errors.Join(errs...)
}

func (l *loader) loadStudy(ctx context.Context) (model.Study, error) {
	var study model.Study
	records, err := l.r.Read(ctx, source.TableStudy, source.Query{Unique: []string{"Property"}})
	if err != nil {
		return study, fmt.Errorf("read %s: %w", source.TableStudy, err)
	}

	var errs []error
	for i, rec := range records {
		r := newRow(source.TableStudy, i+1, rec)
		name := r.required("Property")
		if name == "" {
			errs = append(errs, r.errs...)
			continue
		}
		p, ok := model.LookupStudyProperty(name)
		if !ok {
			r.fail("Property", define.ReasonInvalid, name, define.ErrMissingValue)
			errs = append(errs, r.errs...)
			continue
		}
		if f := p.Field(&study); *f == "" {
			*f = r.optional("Value")
		}
	}
	given := make(map[string]string, len(l.opts.StudyOverrides))
	for _, name := range slices.Sorted(maps.Keys(l.opts.StudyOverrides)) {
		p, ok := model.LookupStudyProperty(name)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown study property %q: %w", name, define.ErrInvalidConfig))
			continue
		}
		if prev, dup := given[p.Name]; dup {
			errs = append(errs, fmt.Errorf("study property %s is overridden as both %q and %q: %w", p.Name, prev, name, define.ErrInvalidConfig))
			continue
		}
		given[p.Name] = name
		*p.Field(&study) = l.opts.StudyOverrides[name]
	}
	if err := errors.Join(errs...); err != nil {
		return study, err
	}

	if study.StudyName == "" {
		return study, &define.FieldError{Table: source.TableStudy, Field: "StudyName", Reason: define.ReasonMissing, Err: define.ErrMissingValue}
	}
	if l.opts.Language != "" {
		study.Language = l.opts.Language
	}
	if l.opts.Context != "" {
		study.Context = l.opts.Context
	}
	if study.Language == "" {
		study.Language = define.DefaultLanguage
	}
	if study.StudyDescription == "" {
		study.StudyDescription = study.StudyName
	}
	if study.ProtocolName == "" {
		study.ProtocolName = study.StudyName
	}
	if study.FileOID == "" {
		study.FileOID = uuid.NewString()
		l.log.Verbose("FileOID not set, generated %s", study.FileOID)
	}
	if study.StudyOID == "" {
		study.StudyOID = uuid.NewString()
		l.log.Verbose("StudyOID not set, generated %s", study.StudyOID)
	}
	if study.MetaDataVersionOID == "" {
		if study.MetaDataVersionOID, err = oid.MetaDataVersion(study.StudyName); err != nil {
			return study, &define.FieldError{Table: source.TableStudy, Field: "StudyName", Reason: define.ReasonInvalid, Err: err}
		}
	}
	if study.MetaDataVersionName == "" {
		study.MetaDataVersionName = "Define-XML for " + study.StudyName
	}
	if study.CommentOID != "" {
		if study.CommentOID, err = oid.Comment(study.CommentOID); err != nil {
			return study, &define.FieldError{Table: source.TableStudy, Field: "Comment ID", Reason: define.ReasonInvalid, Err: err}
		}
	}
	return study, nil
}

func resolveProfile(study model.Study, opts Options) (profile.Profile, profile.Model, error) {
	version := firstNonEmpty(opts.DefineVersion, study.DefineVersion, DefaultDefineVersion)
	p, err := profile.Parse(version)
	if err != nil {
		return p, 0, err
	}
	m, err := profile.ParseModel(firstNonEmpty(opts.StandardType, study.StandardType), study.StandardName)
	if err != nil {
		return p, m, err
	}
	return p, m, nil
}

func (l *loader) standard(_ int, r *row) {
	s := &model.Standard{
		Name:          r.required("Name"),
		PublishingSet: r.optional("Publishing Set"),
		Version:       r.required("Version"),
		Type:          strings.ToUpper(r.or("Type", "IG")),
		Status:        r.optional("Status"),
		CommentOID:    r.ref("Comment ID", oid.Comment),
	}
	if !r.ok() {
		return
	}
	s.OID = r.ident("Name")(oid.Standard(s.Name, s.PublishingSet, s.Version))
	if r.ok() {
		l.g.PutStandard(s)
	}
}

func (l *loader) document(_ int, r *row) {
	id := r.required("ID")
	typ, ok := model.ParseDocumentType(r.optional("Type"))
	if !ok {
		r.fail("Type", define.ReasonMalformed, r.optional("Type"), define.ErrMissingValue)
	}
	d := &model.Document{
		ID:    id,
		Type:  typ,
		Href:  r.required("Href"),
		Title: r.optional("Title"),
	}
	if !r.ok() {
		return
	}
	if d.Title == "" {
		d.Title = d.Href
	}
	d.OID = r.ident("ID")(oid.Leaf(id))
	if r.ok() {
		l.g.PutDocument(d)
	}
}

func (l *loader) comment(_ int, r *row) {
	id := r.required("Comment ID")
	c := &model.Comment{
		Description: r.required("Description"),
		Language:    r.or("Language", l.g.Study.Language),
	}
	if ref, ok := r.document("Document ID", "Pages", "Page Type"); ok {
		c.Documents = []model.DocumentRef{ref}
	}
	if !r.ok() {
		return
	}
	c.OID = r.ident("Comment ID")(oid.Comment(id))
	if r.ok() {
		cur := l.g.PutComment(c)
		cur.Documents = appendRefs(cur.Documents, c.Documents)
	}
}

func (l *loader) method(_ int, r *row) {
	id := r.required("Method ID")
	m := &model.Method{
		Name:              r.or("Name", id),
		Type:              r.or("Type", "Computation"),
		Description:       r.required("Description"),
		ExpressionContext: r.optional("Expression Context"),
		ExpressionCode:    r.optional("Expression Code"),
	}
	if ref, ok := r.document("Document ID", "Pages", "Page Type"); ok {
		m.Documents = []model.DocumentRef{ref}
	}
	if !r.ok() {
		return
	}
	m.OID = r.ident("Method ID")(oid.Method(id))
	if r.ok() {
		cur := l.g.PutMethod(m)
		cur.Documents = appendRefs(cur.Documents, m.Documents)
	}
}

func (l *loader) codelist(_ int, r *row) {
	id := r.required("Codelist ID")
	if id == "" {
		return
	}
	cl := &model.Codelist{
		ID:            id,
		Name:          r.optional("Codelist Label"),
		Code:          r.optional("Codelist Code"),
		DataType:      r.optional("Data Type"),
		SASFormatName: r.optional("SAS Format Name"),
		Standard:      r.standard("Standard"),
		CommentOID:    r.ref("Comment ID", oid.Comment),
		IsNonStandard: r.yesNo("Is Non Standard"),
	}
	cl.OID = r.ident("Codelist ID")(oid.Codelist(id))

	var term *model.Term
	if sv := r.optional("Submission Value"); sv != "" {
		term = &model.Term{
			CodelistID:      id,
			SubmissionValue: sv,
			Code:            r.optional("Code"),
			Decode:          r.optional("Decode"),
			Order:           r.integer("Order"),
			Rank:            r.integer("Rank"),
			ExtendedValue:   r.yesNo("Extended Value"),
		}
	}
	if !r.ok() {
		return
	}
	l.g.PutCodelist(cl)
	if term != nil {
		l.g.PutTerm(term)
	}
}

func (l *loader) dictionary(_ int, r *row) {
	id := r.required("Dictionary ID")
	d := &model.Dictionary{
		ID:       id,
		Name:     r.required("Name"),
		DataType: r.or("Data Type", "text"),
		Version:  r.required("Version"),
		Ref:      r.optional("Ref"),
		Href:     r.optional("Href"),
	}
	if !r.ok() {
		return
	}
	if _, clash := l.g.Codelists[id]; clash {
		r.fail("Dictionary ID", define.ReasonInvalid, "also defined as a codelist", define.ErrMissingValue)
		return
	}
	d.OID = r.ident("Dictionary ID")(oid.Codelist(id))
	if r.ok() {
		l.g.PutDictionary(d)
	}
}

func (l *loader) dataset(n int, r *row) {
	name := r.required("Dataset Name")
	r.dataset = name
	d := &model.Dataset{
		Name:            name,
		Domain:          r.optional("Domain"),
		Ordinal:         r.integer("Order"),
		Description:     r.required("Description"),
		Class:           r.optional("Class"),
		SubClass:        r.optional("SubClass"),
		Structure:       r.optional("Structure"),
		Purpose:         r.optional("Purpose"),
		Repeating:       r.yesNo("Repeating"),
		IsReferenceData: r.yesNo("Reference Data"),
		Href:            r.optional("Href"),
		Standard:        r.standard("Standard"),
		HasNoData:       r.yesNo("Has No Data"),
		IsNonStandard:   r.yesNo("Is Non Standard"),
	}
	if !r.ok() {
		return
	}
	if d.Ordinal == 0 {
		d.Ordinal = n
	}
	d.OID = r.ident("Dataset Name")(oid.Dataset(name))
	d.CommentOID = l.commentRef(r, name)
	if r.ok() {
		l.g.PutDataset(d)
	}
}

// descriptor reads the descriptive columns shared by VARIABLE and VALUE.
// keys are the dataset, variable and (for values) value names, used to
// name inline comments and derivations.
func (l *loader) descriptor(r *row, keys ...string) model.Descriptor {
	d := model.Descriptor{
		Label:             r.optional("Label"),
		DataType:          r.required("Data Type"),
		Length:            r.integer("Length"),
		SignificantDigits: r.integer("Significant Digits"),
		DisplayFormat:     r.optional("Display Format"),
		SASFieldName:      r.optional("SAS Field Name"),
		Mandatory:         r.yesNo("Mandatory"),
		Codelist:          r.optional("Codelist"),
		Origin: model.Origin{
			Type:        r.optional("Origin"),
			Source:      r.optional("Source"),
			Predecessor: r.optional("Predecessor"),
		},
		MethodOID:     r.ref("Method ID", oid.Method),
		Evaluator:     r.optional("Evaluator"),
		HasNoData:     r.yesNo("Has No Data"),
		IsNonStandard: r.yesNo("Is Non Standard"),
	}
	if ref, ok := r.document("Origin Document ID", "Origin Pages", "Origin Page Type"); ok {
		d.Origin.Pages = ref
	}
	if d.Length < 0 {
		r.fail("Length", define.ReasonMalformed, r.optional("Length"), define.ErrMissingValue)
	}
	if d.Origin.Type == "" && d.Origin.Source != "" {
		r.fail("Origin", define.ReasonMissing, "source given without an origin", define.ErrMissingValue)
	}

	if derivation := r.optional("Derivation"); derivation != "" && d.MethodOID == "" && r.ok() {
		id, err := oid.InlineMethod(keys[0], keys[1], keys[2:]...)
		if d.MethodOID = r.ident("Derivation")(id, err); d.MethodOID != "" {
			l.g.PutMethod(&model.Method{
				OID:         d.MethodOID,
				Name:        "Algorithm to derive " + strings.Join(keys, "."),
				Type:        "Computation",
				Description: derivation,
			})
		}
	}
	if d.Origin.Type == "" && d.MethodOID != "" {
		d.Origin.Type = "Derived"
	}
	d.CommentOID = l.commentRef(r, keys...)
	return d
}

// commentRef resolves the Comment ID column, or synthesizes a comment
// from inline Comment text.
func (l *loader) commentRef(r *row, keys ...string) string {
	if ref := r.ref("Comment ID", oid.Comment); ref != "" {
		return ref
	}
	text := r.optional("Comment")
	if text == "" || !r.ok() {
		return ""
	}
	id, err := oid.InlineComment(keys...)
	ref := r.ident("Comment")(id, err)
	if ref != "" {
		l.g.PutComment(&model.Comment{OID: ref, Description: text, Language: l.g.Study.Language})
	}
	return ref
}

func (l *loader) owningDataset(r *row, column, name string) *model.Dataset {
	if name == "" {
		return nil
	}
	d, ok := l.g.Datasets[name]
	if !ok {
		r.fail(column, define.ReasonUnresolved, name, define.ErrUnresolvedReference)
		return nil
	}
	return d
}

func (l *loader) variable(_ int, r *row) {
	ds := r.required("Dataset Name")
	name := r.required("Variable Name")
	r.dataset, r.variable = ds, name
	d := l.owningDataset(r, "Dataset Name", ds)
	if !r.ok() {
		return
	}

	v := &model.Variable{
		Dataset:        ds,
		Name:           name,
		Ordinal:        r.integer("Order"),
		Descriptor:     l.descriptor(r, ds, name),
		KeySequence:    r.integer("Key Sequence"),
		Role:           r.optional("Role"),
		RepeatN:        r.integer("Repeat N"),
		IsSupplemental: r.yesNo("Is SUPP"),
	}
	if v.RepeatN < 0 {
		r.fail("Repeat N", define.ReasonMalformed, r.optional("Repeat N"), define.ErrMissingValue)
	}
	// Analysis datasets have no SUPP-- companions to move the variable into.
	if v.IsSupplemental.IsYes() && l.g.Model == profile.Parameter {
		r.fail("Is SUPP", define.ReasonInvalid, r.optional("Is SUPP"), define.ErrMissingValue)
	}
	if !r.ok() {
		return
	}
	if v.Ordinal == 0 {
		v.Ordinal = len(l.g.VariablesOf(ds)) + 1
	}
	v.OID = r.ident("Variable Name")(oid.Item(l.g.Model, ds, d.Domain, name))
	if r.ok() {
		l.g.PutVariable(v)
	}
}

func (l *loader) value(_ int, r *row) {
	ds := r.required("Dataset Name")
	variable := r.required("Variable Name")
	name := r.required("Value Name")
	r.dataset, r.variable, r.value = ds, variable, name
	d := l.owningDataset(r, "Dataset Name", ds)
	if !r.ok() {
		return
	}

	v := &model.Value{
		Dataset:    ds,
		Variable:   variable,
		Name:       name,
		Ordinal:    r.integer("Order"),
		Descriptor: l.descriptor(r, ds, variable, name),
	}
	v.OID = r.ident("Value Name")(oid.ValueItem(l.g.Model, ds, d.Domain, variable, name))
	v.ValueListOID = r.ident("Variable Name")(oid.ValueList(l.g.Model, ds, d.Domain, variable))

	wcDataset := r.or("WhereClause Dataset", ds)
	wcVariable := r.required("WhereClause Variable")
	cmp := r.comparator("WhereClause Operator")
	literals := []string{r.required("WhereClause Value")}
	if cmp.MultiValued() {
		literals = splitValues(literals[0])
	}
	wcd := l.owningDataset(r, "WhereClause Dataset", wcDataset)
	if !r.ok() {
		return
	}

	wc := &model.WhereClause{
		Conditions: []model.Condition{{
			ItemOID:    r.ident("WhereClause Variable")(oid.Item(l.g.Model, wcDataset, wcd.Domain, wcVariable)),
			Dataset:    wcDataset,
			Variable:   wcVariable,
			Comparator: cmp,
			Values:     literals,
		}},
		CommentOID: r.ref("WhereClause Comment ID", oid.Comment),
	}
	wc.OID = r.ident("WhereClause Group ID")(oid.WhereClause(l.g.Model, ds, d.Domain, variable, name, r.optional("WhereClause Group ID")))
	if !r.ok() {
		return
	}

	v.WhereClauseOIDs = []string{wc.OID}
	if v.Ordinal == 0 {
		if cur, ok := l.g.Values[v.OID]; ok {
			v.Ordinal = cur.Ordinal
		} else {
			v.Ordinal = len(l.g.ValuesOf(v.ValueListOID)) + 1
		}
	}
	l.g.PutWhereClause(wc)
	l.g.PutValue(v)
}

func (l *loader) display(n int, r *row) {
	name := r.required("Display Name")
	d := &model.Display{
		Name:    name,
		Ordinal: r.integer("Order"),
		Title:   r.required("Display Title"),
	}
	if ref, ok := r.document("Document ID", "Pages", "Page Type"); ok {
		d.Documents = []model.DocumentRef{ref}
	}
	if !r.ok() {
		return
	}
	if d.Ordinal == 0 {
		d.Ordinal = n
	}
	d.OID = r.ident("Display Name")(oid.Display(name))
	if r.ok() {
		l.g.PutDisplay(d)
	}
}

func (l *loader) result(_ int, r *row) {
	display := r.required("Display Name")
	id := r.required("Result ID")
	if display != "" {
		if _, ok := l.g.Displays[display]; !ok {
			r.fail("Display Name", define.ReasonUnresolved, display, define.ErrUnresolvedReference)
		}
	}
	res := &model.Result{
		Display:            display,
		ID:                 id,
		Ordinal:            r.integer("Order"),
		Description:        r.required("Description"),
		Reason:             r.optional("Analysis Reason"),
		Purpose:            r.optional("Analysis Purpose"),
		Documentation:      r.optional("Documentation"),
		ProgrammingContext: r.optional("Programming Context"),
		ProgrammingCode:    r.optional("Programming Code"),
		DatasetsCommentOID: r.ref("Datasets Comment ID", oid.Comment),
	}
	if ref, ok := r.document("Documentation Document ID", "Documentation Pages", "Documentation Page Type"); ok {
		res.DocumentationRefs = []model.DocumentRef{ref}
	}
	if ref, ok := r.document("Programming Document ID", "Programming Pages", "Programming Page Type"); ok {
		res.ProgrammingRefs = []model.DocumentRef{ref}
	}
	if pds := r.optional("Parameter Dataset"); pds != "" {
		if d := l.owningDataset(r, "Parameter Dataset", pds); d != nil {
			res.ParameterOID = r.ident("Parameter Variable")(oid.Item(l.g.Model, pds, d.Domain, r.or("Parameter Variable", "PARAMCD")))
		}
	}
	if !r.ok() {
		return
	}
	if res.Ordinal == 0 {
		res.Ordinal = len(l.g.ResultsOf(display)) + 1
	}
	res.OID = r.ident("Result ID")(oid.Result(display, id))
	if r.ok() {
		l.g.PutResult(res)
	}
}

func (l *loader) analysisDataset(_ int, r *row) {
	display := r.required("Display Name")
	result := r.required("Result ID")
	ds := r.required("Dataset Name")
	r.dataset = ds
	if display != "" && result != "" {
		if _, ok := l.g.Results[model.ResultKey{Display: display, ID: result}]; !ok {
			r.fail("Result ID", define.ReasonUnresolved, display+"/"+result, define.ErrUnresolvedReference)
		}
	}
	d := l.owningDataset(r, "Dataset Name", ds)
	if !r.ok() {
		return
	}

	a := &model.AnalysisDataset{
		Display:      display,
		Result:       result,
		Dataset:      ds,
		ItemGroupOID: d.OID,
	}
	for _, name := range splitValues(r.optional("Analysis Variables")) {
		if item := r.ident("Analysis Variables")(oid.Item(l.g.Model, ds, d.Domain, name)); item != "" {
			a.VariableOIDs = append(a.VariableOIDs, item)
		}
	}

	if wcVariable := r.optional("WhereClause Variable"); wcVariable != "" {
		wcDataset := r.or("WhereClause Dataset", ds)
		cmp := r.comparator("WhereClause Operator")
		literals := []string{r.optional("WhereClause Value")}
		if cmp.MultiValued() {
			literals = splitValues(literals[0])
		}
		wcd := l.owningDataset(r, "WhereClause Dataset", wcDataset)
		if !r.ok() {
			return
		}
		wc := &model.WhereClause{
			OID: r.ident("WhereClause Variable")(oid.AnalysisWhereClause(display, result, ds)),
			Conditions: []model.Condition{{
				ItemOID:    r.ident("WhereClause Variable")(oid.Item(l.g.Model, wcDataset, wcd.Domain, wcVariable)),
				Dataset:    wcDataset,
				Variable:   wcVariable,
				Comparator: cmp,
				Values:     literals,
			}},
		}
		if !r.ok() {
			return
		}
		l.g.PutWhereClause(wc)
		a.WhereClauseOID = wc.OID
	}
	if r.ok() {
		l.g.PutAnalysisDataset(a)
	}
}

// resolveStandards turns the standard names written on datasets and
// codelists into standard OIDs.
func (l *loader) resolveStandards() error {
	var errs []error
	resolve := func(table string, ref model.StandardRef, ctx define.FieldError) string {
		if ref.IsZero() {
			return ""
		}
		if s, ok := l.g.Standards[ref]; ok {
			return s.OID
		}
		ctx.Table = table
		ctx.Field = "Standard Name"
		ctx.Param = strings.TrimSpace(strings.Join([]string{ref.Name, ref.PublishingSet, ref.Version}, " "))
		ctx.Reason = define.ReasonUnresolved
		ctx.Err = define.ErrUnresolvedReference
		errs = append(errs, &ctx)
		return ""
	}
	for _, d := range l.g.SortedDatasets() {
		d.StandardOID = resolve(source.TableDataset, d.Standard, define.FieldError{Dataset: d.Name})
	}
	for _, c := range l.g.SortedCodelists() {
		c.StandardOID = resolve(source.TableCodelist, c.Standard, define.FieldError{Param: c.ID})
	}
	return errors.Join(errs...)
}

func appendRefs(dst, src []model.DocumentRef) []model.DocumentRef {
	for _, s := range src {
		dup := false
		for _, d := range dst {
			if d == s {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, s)
		}
	}
	return dst
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
