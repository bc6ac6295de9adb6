package xmlb

import (
	"strconv"
	"strings"

	"github.com/lestrrat-go/pdebug/v3"
	"github.com/lestrrat-go/xmlb/internal/nsmap"
	"github.com/pkg/errors"
)

// Serializer walks a node tree and feeds structural events to a Sink,
// resolving namespace prefixes along the way. A Serializer holds no
// traversal state of its own so it may be reused and shared between
// goroutines; every Serialize call builds its own prefix map chain and
// prefix counter.
type Serializer struct {
	requireWellFormed bool
	noDoubleEncoding  bool
}

// NewSerializer creates a Serializer. Well-formedness enforcement is
// on unless disabled with WithRequireWellFormed(false).
func NewSerializer(options ...SerializeOption) *Serializer {
	s := &Serializer{requireWellFormed: true}
	for _, option := range options {
		switch option.Ident() {
		case identRequireWellFormed{}:
			s.requireWellFormed = option.Value().(bool)
		case identNoDoubleEncoding{}:
			s.noDoubleEncoding = option.Value().(bool)
		}
	}
	return s
}

// Serialize walks the tree rooted at n and emits its events to sink.
// Documents that never saw a namespaced node take a cheaper path with
// no prefix tracking; it produces the same events the namespace-aware
// walk would for such trees.
func (s *Serializer) Serialize(n Node, sink Sink) error {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	if n == nil {
		return ErrNilNode
	}
	if sink == nil {
		return ErrNilSink
	}

	doc := n.OwnerDocument()
	if doc != nil {
		if err := doc.Err(); err != nil {
			return err
		}
	}

	w := &walker{
		sink:              sink,
		requireWellFormed: s.requireWellFormed,
		noDoubleEncoding:  s.noDoubleEncoding,
		prefixIndex:       1,
	}

	// The plain walk is only valid when we know for sure that no node
	// in the tree carries a namespace.
	if doc != nil && !doc.HasNamespaces() {
		return w.serializeNode(n, 0)
	}

	m := nsmap.New()
	xmlURI := XMLNamespace
	m.Set("xml", &xmlURI)
	return w.serializeNodeNS(n, "", m, 0)
}

// walker carries the per-call state of one Serialize invocation. The
// prefix map travels as an argument and is copied on every element so
// subtree bindings stay local; prefixIndex lives here so it keeps
// increasing across the entire call and generated prefixes never
// repeat, even in unrelated subtrees.
type walker struct {
	sink              Sink
	requireWellFormed bool
	noDoubleEncoding  bool
	prefixIndex       int
}

func (w *walker) context(level int, n Node) Context {
	return Context{level: level, node: n}
}

func (w *walker) serializeNodeNS(n Node, inheritedNS string, m *nsmap.Map, level int) error {
	switch n := n.(type) {
	case *Element:
		return w.serializeElementNS(n, inheritedNS, m, level)
	case *Document:
		return w.serializeDocumentNS(n, inheritedNS, m, level)
	case *Comment:
		return w.serializeComment(n, level)
	case *Text:
		return w.serializeText(n, level)
	case *DocumentFragment:
		return w.serializeFragmentNS(n, inheritedNS, m, level)
	case *DocumentType:
		return w.serializeDocType(n, level)
	case *ProcessingInstruction:
		return w.serializeInstruction(n, level)
	case *CDATASection:
		return w.serializeCData(n, level)
	default:
		return ErrUnsupportedNode{Type: n.Type()}
	}
}

// declaresNamespace reports whether decl is an explicit default
// namespace declaration for exactly ns. nil (no declaration present)
// never matches, and neither does an undeclaration (xmlns="") since
// an element in no namespace is not "in" the empty string namespace.
func declaresNamespace(decl *string, ns string) bool {
	return decl != nil && ns != "" && *decl == ns
}

func (w *walker) serializeElementNS(e *Element, inheritedNS string, prefixMap *nsmap.Map, level int) error {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	if w.requireWellFormed {
		if strings.ContainsRune(e.localName, ':') || CheckName(e.localName) != nil {
			return invalidState(errors.New(`element local name contains invalid characters`))
		}
	}

	ctx := w.context(level, e)

	var qualifiedName string
	var skipEndTag bool
	var ignoreNamespaceDefinitionAttribute bool

	m := prefixMap.Copy()
	localPrefixesMap := make(map[string]string)
	localDefaultNamespace := recordNamespaceInformation(e, m, localPrefixesMap)
	ns := e.namespaceURI

	// Namespace declarations synthesized while choosing the qualified
	// name; the attribute pass appends the real attributes after them.
	var attrs []AttrEvent

	if inheritedNS == ns {
		// The element needs no declaration of its own. Any default
		// namespace attribute it carries is dropped rather than
		// re-emitted.
		if localDefaultNamespace != nil {
			ignoreNamespaceDefinitionAttribute = true
		}
		if ns == XMLNamespace {
			qualifiedName = "xml:" + e.localName
		} else {
			qualifiedName = e.localName
		}
		if err := w.sink.BeginElement(ctx, qualifiedName); err != nil {
			return err
		}
		if err := w.sink.OpenTagBegin(ctx, qualifiedName); err != nil {
			return err
		}
	} else {
		prefix := e.prefix
		var candidatePrefix string
		var haveCandidate bool
		// The lookup is skipped for an unprefixed element whose own
		// xmlns attribute already declares its namespace; that case
		// resolves below without consulting the map.
		if ns != "" && (prefix != "" || !declaresNamespace(localDefaultNamespace, ns)) {
			candidatePrefix, haveCandidate = m.Get(prefix, &ns)
		}
		if prefix == "xmlns" {
			if w.requireWellFormed {
				return invalidState(errors.New(`an element cannot have the xmlns prefix`))
			}
			candidatePrefix = prefix
			haveCandidate = true
		}

		if haveCandidate {
			// An ancestor already declared a usable prefix.
			qualifiedName = candidatePrefix + ":" + e.localName
			if localDefaultNamespace != nil && *localDefaultNamespace != XMLNamespace {
				inheritedNS = *localDefaultNamespace
			}
			if err := w.sink.BeginElement(ctx, qualifiedName); err != nil {
				return err
			}
			if err := w.sink.OpenTagBegin(ctx, qualifiedName); err != nil {
				return err
			}
		} else if prefix != "" {
			// The element brought its own prefix. Keep it unless this
			// very element declared it for a different URI, in which
			// case a fresh prefix is generated.
			if _, ok := localPrefixesMap[prefix]; ok {
				prefix = w.generatePrefix(ns, m)
			}
			m.Set(prefix, &ns)
			qualifiedName = prefix + ":" + e.localName
			if err := w.sink.BeginElement(ctx, qualifiedName); err != nil {
				return err
			}
			if err := w.sink.OpenTagBegin(ctx, qualifiedName); err != nil {
				return err
			}
			v, err := w.serializeAttributeValue(ns)
			if err != nil {
				return err
			}
			attrs = append(attrs, AttrEvent{Prefix: "xmlns", LocalName: prefix, Value: v})
			if localDefaultNamespace != nil {
				inheritedNS = *localDefaultNamespace
			}
		} else if !declaresNamespace(localDefaultNamespace, ns) {
			// No usable prefix anywhere: make ns the default namespace
			// for this subtree. ns may be empty here, in which case
			// this emits an xmlns="" undeclaration.
			ignoreNamespaceDefinitionAttribute = true
			qualifiedName = e.localName
			inheritedNS = ns
			if err := w.sink.BeginElement(ctx, qualifiedName); err != nil {
				return err
			}
			if err := w.sink.OpenTagBegin(ctx, qualifiedName); err != nil {
				return err
			}
			v, err := w.serializeAttributeValue(ns)
			if err != nil {
				return err
			}
			attrs = append(attrs, AttrEvent{LocalName: "xmlns", Value: v})
		} else {
			// The element's own xmlns attribute already declares ns;
			// it will be emitted by the attribute pass.
			qualifiedName = e.localName
			inheritedNS = ns
			if err := w.sink.BeginElement(ctx, qualifiedName); err != nil {
				return err
			}
			if err := w.sink.OpenTagBegin(ctx, qualifiedName); err != nil {
				return err
			}
		}
	}

	attrs, err := w.serializeAttributesNS(e, m, localPrefixesMap, ignoreNamespaceDefinitionAttribute, attrs)
	if err != nil {
		return err
	}
	if err := w.sink.Attributes(ctx, attrs); err != nil {
		return err
	}

	isHTML := ns == XHTMLNamespace
	if isHTML && e.firstChild == nil && voidElementNames[e.localName] {
		if err := w.sink.OpenTagEnd(ctx, qualifiedName, true, true); err != nil {
			return err
		}
		if err := w.sink.EndElement(ctx, qualifiedName); err != nil {
			return err
		}
		skipEndTag = true
	} else if !isHTML && e.firstChild == nil {
		if err := w.sink.OpenTagEnd(ctx, qualifiedName, true, false); err != nil {
			return err
		}
		if err := w.sink.EndElement(ctx, qualifiedName); err != nil {
			return err
		}
		skipEndTag = true
	} else {
		if err := w.sink.OpenTagEnd(ctx, qualifiedName, false, false); err != nil {
			return err
		}
	}
	if skipEndTag {
		return nil
	}

	if isHTML && e.localName == "template" {
		// template contents live in a separate tree and are not
		// serialized
	} else {
		for child := e.firstChild; child != nil; child = child.NextSibling() {
			if err := w.serializeNodeNS(child, inheritedNS, m, level+1); err != nil {
				return err
			}
		}
	}

	if err := w.sink.CloseTag(ctx, qualifiedName); err != nil {
		return err
	}
	return w.sink.EndElement(ctx, qualifiedName)
}

// recordNamespaceInformation scans the namespace declaration
// attributes literally present on e, adding prefixed declarations to
// m and localPrefixesMap. It returns the value of the default
// declaration (xmlns="..."), or nil when the element carries none.
func recordNamespaceInformation(e *Element, m *nsmap.Map, localPrefixesMap map[string]string) *string {
	var defaultNamespaceAttrValue *string
	for _, attr := range e.attrs {
		if attr.namespaceURI != XMLNSNamespace {
			continue
		}
		if attr.prefix == "" {
			v := attr.value
			defaultNamespaceAttrValue = &v
			continue
		}

		// xmlns:prefix="uri"
		prefixDefinition := attr.localName
		namespaceDefinition := attr.value
		if namespaceDefinition == XMLNamespace {
			continue
		}
		nsDefinition := &namespaceDefinition
		if namespaceDefinition == "" {
			// declared as xmlns:prefix="", binding the prefix to no
			// namespace
			nsDefinition = nil
		}
		if m.Has(prefixDefinition, nsDefinition) {
			continue
		}
		m.Set(prefixDefinition, nsDefinition)
		localPrefixesMap[prefixDefinition] = namespaceDefinition
	}
	return defaultNamespaceAttrValue
}

// generatePrefix returns a fresh prefix for ns and records the
// binding in m. The counter never resets within a call.
func (w *walker) generatePrefix(ns string, m *nsmap.Map) string {
	generated := "ns" + strconv.Itoa(w.prefixIndex)
	w.prefixIndex++
	m.Set(generated, &ns)
	if pdebug.Enabled {
		pdebug.Printf("generated prefix %s for namespace %s", generated, ns)
	}
	return generated
}

type attrName struct {
	ns    string
	local string
}

func (w *walker) serializeAttributesNS(e *Element, m *nsmap.Map, localPrefixesMap map[string]string, ignoreNamespaceDefinitionAttribute bool, result []AttrEvent) ([]AttrEvent, error) {
	// The local name set exists only to reject duplicates, so it is
	// not built in lenient mode.
	var localNameSet map[attrName]struct{}
	if w.requireWellFormed {
		localNameSet = make(map[attrName]struct{})
	}

	for _, attr := range e.attrs {
		if !w.requireWellFormed && !ignoreNamespaceDefinitionAttribute && attr.namespaceURI == "" {
			// Nothing below applies to an unchecked attribute in no
			// namespace; emit it directly.
			result = append(result, AttrEvent{
				LocalName: attr.localName,
				Value:     escapeAttrValue(attr.value, w.noDoubleEncoding),
			})
			continue
		}

		if w.requireWellFormed {
			key := attrName{ns: attr.namespaceURI, local: attr.localName}
			if _, ok := localNameSet[key]; ok {
				return nil, invalidState(ErrDuplicateAttribute)
			}
			localNameSet[key] = struct{}{}
		}

		attributeNamespace := attr.namespaceURI
		var candidatePrefix string
		var haveCandidate bool

		if attributeNamespace != "" {
			candidatePrefix, haveCandidate = m.Get(attr.prefix, &attributeNamespace)

			if attributeNamespace == XMLNSNamespace {
				// The attribute is itself a namespace declaration.
				// Declarations that cannot round-trip or that repeat
				// an inherited binding are dropped.
				declared, ok := localPrefixesMap[attr.localName]
				if attr.value == XMLNamespace ||
					(attr.prefix == "" && ignoreNamespaceDefinitionAttribute) ||
					(attr.prefix != "" && (!ok || declared != attr.value) && m.Has(attr.localName, &attr.value)) {
					continue
				}
				if w.requireWellFormed && attr.value == XMLNSNamespace {
					return nil, invalidState(errors.New(`the xmlns namespace is reserved`))
				}
				if w.requireWellFormed && attr.value == "" {
					return nil, invalidState(errors.New(`namespace prefix declarations cannot be used to undeclare a namespace`))
				}
				if attr.prefix == "xmlns" {
					candidatePrefix = "xmlns"
					haveCandidate = true
				}
			} else if !haveCandidate {
				// No prefix is bound to this namespace yet. Reuse the
				// attribute's own prefix when it is unclaimed rather
				// than always generating a fresh one.
				if attr.prefix != "" && (!m.HasPrefix(attr.prefix) || m.Has(attr.prefix, &attributeNamespace)) {
					candidatePrefix = attr.prefix
					m.Set(candidatePrefix, &attributeNamespace)
				} else {
					candidatePrefix = w.generatePrefix(attributeNamespace, m)
				}
				haveCandidate = true
				v, err := w.serializeAttributeValue(attributeNamespace)
				if err != nil {
					return nil, err
				}
				result = append(result, AttrEvent{Prefix: "xmlns", LocalName: candidatePrefix, Value: v})
			}
		}

		if w.requireWellFormed {
			if strings.ContainsRune(attr.localName, ':') ||
				CheckName(attr.localName) != nil ||
				(attr.localName == "xmlns" && attributeNamespace == "") {
				return nil, invalidState(errors.New(`attribute local name contains invalid characters`))
			}
		}

		v, err := w.serializeAttributeValue(attr.value)
		if err != nil {
			return nil, err
		}
		result = append(result, AttrEvent{
			NamespaceURI: attributeNamespace,
			Prefix:       candidatePrefix,
			LocalName:    attr.localName,
			Value:        v,
		})
	}
	return result, nil
}

// serializeAttributeValue checks and escapes a value for emission
// inside a double quoted attribute. Synthesized namespace declaration
// values go through the same path.
func (w *walker) serializeAttributeValue(value string) (string, error) {
	if w.requireWellFormed {
		if err := CheckChars(value); err != nil {
			return "", invalidState(errors.Wrap(err, `attribute value contains invalid characters`))
		}
	}
	return escapeAttrValue(value, w.noDoubleEncoding), nil
}

func (w *walker) serializeDocumentNS(d *Document, inheritedNS string, m *nsmap.Map, level int) error {
	if w.requireWellFormed && d.DocumentElement() == nil {
		return invalidState(errors.New(`missing document element`))
	}
	for child := d.firstChild; child != nil; child = child.NextSibling() {
		if err := w.serializeNodeNS(child, inheritedNS, m, level); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) serializeFragmentNS(f *DocumentFragment, inheritedNS string, m *nsmap.Map, level int) error {
	for child := f.firstChild; child != nil; child = child.NextSibling() {
		if err := w.serializeNodeNS(child, inheritedNS, m, level); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) serializeNode(n Node, level int) error {
	switch n := n.(type) {
	case *Element:
		return w.serializeElement(n, level)
	case *Document:
		return w.serializeDocument(n, level)
	case *Comment:
		return w.serializeComment(n, level)
	case *Text:
		return w.serializeText(n, level)
	case *DocumentFragment:
		return w.serializeFragment(n, level)
	case *DocumentType:
		return w.serializeDocType(n, level)
	case *ProcessingInstruction:
		return w.serializeInstruction(n, level)
	case *CDATASection:
		return w.serializeCData(n, level)
	default:
		return ErrUnsupportedNode{Type: n.Type()}
	}
}

func (w *walker) serializeElement(e *Element, level int) error {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	if w.requireWellFormed {
		if strings.ContainsRune(e.localName, ':') || CheckName(e.localName) != nil {
			return invalidState(errors.New(`element local name contains invalid characters`))
		}
	}

	ctx := w.context(level, e)
	qualifiedName := e.localName

	if err := w.sink.BeginElement(ctx, qualifiedName); err != nil {
		return err
	}
	if err := w.sink.OpenTagBegin(ctx, qualifiedName); err != nil {
		return err
	}

	attrs, err := w.serializeAttributes(e)
	if err != nil {
		return err
	}
	if err := w.sink.Attributes(ctx, attrs); err != nil {
		return err
	}

	if e.firstChild == nil {
		if err := w.sink.OpenTagEnd(ctx, qualifiedName, true, false); err != nil {
			return err
		}
		return w.sink.EndElement(ctx, qualifiedName)
	}

	if err := w.sink.OpenTagEnd(ctx, qualifiedName, false, false); err != nil {
		return err
	}
	for child := e.firstChild; child != nil; child = child.NextSibling() {
		if err := w.serializeNode(child, level+1); err != nil {
			return err
		}
	}
	if err := w.sink.CloseTag(ctx, qualifiedName); err != nil {
		return err
	}
	return w.sink.EndElement(ctx, qualifiedName)
}

func (w *walker) serializeAttributes(e *Element) ([]AttrEvent, error) {
	result := make([]AttrEvent, 0, len(e.attrs))
	if !w.requireWellFormed {
		for _, attr := range e.attrs {
			result = append(result, AttrEvent{
				LocalName: attr.localName,
				Value:     escapeAttrValue(attr.value, w.noDoubleEncoding),
			})
		}
		return result, nil
	}

	localNameSet := make(map[string]struct{})
	for _, attr := range e.attrs {
		if _, ok := localNameSet[attr.localName]; ok {
			return nil, invalidState(ErrDuplicateAttribute)
		}
		localNameSet[attr.localName] = struct{}{}
		if strings.ContainsRune(attr.localName, ':') || CheckName(attr.localName) != nil {
			return nil, invalidState(errors.New(`attribute local name contains invalid characters`))
		}
		v, err := w.serializeAttributeValue(attr.value)
		if err != nil {
			return nil, err
		}
		result = append(result, AttrEvent{LocalName: attr.localName, Value: v})
	}
	return result, nil
}

func (w *walker) serializeDocument(d *Document, level int) error {
	if w.requireWellFormed && d.DocumentElement() == nil {
		return invalidState(errors.New(`missing document element`))
	}
	for child := d.firstChild; child != nil; child = child.NextSibling() {
		if err := w.serializeNode(child, level); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) serializeFragment(f *DocumentFragment, level int) error {
	for child := f.firstChild; child != nil; child = child.NextSibling() {
		if err := w.serializeNode(child, level); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) serializeText(t *Text, level int) error {
	data := string(t.content)
	if w.requireWellFormed {
		if err := CheckChars(data); err != nil {
			return invalidState(errors.Wrap(err, `text data contains invalid characters`))
		}
	}
	return w.sink.Text(w.context(level, t), escapeTextData(data, w.noDoubleEncoding))
}

func (w *walker) serializeComment(c *Comment, level int) error {
	data := string(c.content)
	if w.requireWellFormed {
		if CheckChars(data) != nil || strings.Contains(data, "--") || strings.HasSuffix(data, "-") {
			return invalidState(errors.New(`comment data contains invalid characters`))
		}
	}
	// comment data is emitted raw, with no escaping
	return w.sink.Comment(w.context(level, c), data)
}

func (w *walker) serializeCData(c *CDATASection, level int) error {
	data := string(c.content)
	if w.requireWellFormed && strings.Contains(data, "]]>") {
		return invalidState(errors.New(`cdata section data contains invalid characters`))
	}
	return w.sink.CData(w.context(level, c), data)
}

func (w *walker) serializeInstruction(pi *ProcessingInstruction, level int) error {
	if w.requireWellFormed {
		if strings.ContainsRune(pi.target, ':') || strings.EqualFold(pi.target, "xml") {
			return invalidState(errors.New(`processing instruction target contains invalid characters`))
		}
		if CheckChars(pi.data) != nil || strings.Contains(pi.data, "?>") {
			return invalidState(errors.New(`processing instruction data contains invalid characters`))
		}
	}
	return w.sink.Instruction(w.context(level, pi), pi.target, pi.data)
}

func (w *walker) serializeDocType(dt *DocumentType, level int) error {
	if w.requireWellFormed {
		if CheckPubID(dt.publicID) != nil {
			return invalidState(errors.New(`doctype public identifier contains invalid characters`))
		}
		if CheckChars(dt.systemID) != nil ||
			(strings.Contains(dt.systemID, `"`) && strings.Contains(dt.systemID, `'`)) {
			return invalidState(errors.New(`doctype system identifier contains invalid characters`))
		}
	}
	return w.sink.DocType(w.context(level, dt), dt.name, dt.publicID, dt.systemID)
}

// voidElementNames lists the HTML elements that never have contents
// and may be written in the self closing form even in HTML output.
var voidElementNames = map[string]bool{
	"area": true, "base": true, "basefont": true, "bgsound": true,
	"br": true, "col": true, "embed": true, "frame": true, "hr": true,
	"img": true, "input": true, "keygen": true, "link": true,
	"menuitem": true, "meta": true, "param": true, "source": true,
	"track": true, "wbr": true,
}
