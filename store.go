package xmlconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/antchfx/xmlquery"
	"github.com/jellydator/ttlcache/v3"
	xsdvalidate "github.com/terminalstatic/go-xsd-validate"

	"github.com/ygrebnov/xmlconfig/streams"
)

// Store owns one schema-validated XML configuration document and answers
// XPath queries against it. A document becomes visible only after it passed
// XSD validation; on validation failure the store falls back once to the
// configured default document and otherwise keeps its previous state.
//
// Load, SetDocument and the query methods report problems through the
// configured streams sink instead of returning errors: the store degrades to
// "no document installed" rather than failing. Callers detect the degraded
// state with Document.
type Store struct {
	defaultPath string
	schemaPath  string
	caching     bool
	streams     streams.IOStreams

	doc    *xmlquery.Node
	single *ttlcache.Cache[string, Value]
	list   *ttlcache.Cache[string, Value]
}

// Option configures a Store at construction time. Options are composable and
// can be passed to New in any order.
type Option func(*Store)

// New constructs a Store and applies all given options. Query caching is
// enabled unless WithoutCache is passed, and diagnostics go to
// stdout/stderr unless WithStreams overrides the sink.
func New(opts ...Option) *Store {
	s := &Store{
		caching: true,
		streams: streams.DefaultIOStreams(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.single = ttlcache.New[string, Value]()
	s.list = ttlcache.New[string, Value]()
	return s
}

// WithDefaultDocument registers a fallback document that is loaded when a
// requested document is missing or fails validation. A path that does not
// refer to a readable regular file is silently ignored; defaults are
// optional and a bad path is treated as "no default configured".
func WithDefaultDocument(path string) Option {
	return func(s *Store) {
		s.defaultPath = readableFile(path)
	}
}

// WithSchema registers the XSD schema documents are validated against.
// Like WithDefaultDocument, an unreadable path is silently treated as
// absent; without a schema no document can be installed.
func WithSchema(path string) Option {
	return func(s *Store) {
		s.schemaPath = readableFile(path)
	}
}

// WithoutCache disables memoization of query results.
func WithoutCache() Option {
	return func(s *Store) {
		s.caching = false
	}
}

// WithStreams wires the sink that receives non-fatal diagnostics (missing
// schema, validation errors). Pass adapters from the streams package to
// route messages to buffers, slog or zerolog.
func WithStreams(st streams.IOStreams) Option {
	return func(s *Store) {
		s.streams = st
	}
}

// readableFile returns path when it refers to a readable regular file, and
// "" otherwise.
func readableFile(path string) string {
	if path == "" {
		return ""
	}
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	info, err := f.Stat()
	_ = f.Close()
	if err != nil || info.IsDir() {
		return ""
	}
	return path
}

// Load reads the document at path and attempts to validate and install it.
// When the file cannot be read, the configured default document is loaded
// instead (once, and only when path is not already the default). Validation
// failures follow the same fallback; see SetDocument for the install rules.
func (s *Store) Load(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.loadDefault(path)
		return
	}
	s.install(data, path)
}

// SetDocument validates and installs an already parsed document, bypassing
// file loading. Intended for programmatically constructed configurations.
func (s *Store) SetDocument(doc *xmlquery.Node) {
	if doc == nil {
		return
	}
	s.install([]byte(doc.OutputXML(true)), "")
}

// Document returns the currently installed document, or nil when none is
// installed.
func (s *Store) Document() *xmlquery.Node {
	return s.doc
}

// Get evaluates an XPath expression against the installed document and
// returns the normalized result. A single match is returned unwrapped;
// multiple matches come back as an ordered Array. Get returns nil when no
// document is installed, when nothing matches, or when the expression does
// not evaluate; malformed expressions are tolerated, so callers cannot
// distinguish "no result" from "bad query".
func (s *Store) Get(expr string) Value {
	return s.query(expr, false)
}

// GetAll evaluates an XPath expression in forced collection mode: the
// result is always an ordered Array, possibly empty, with single matches
// wrapped in a one-element Array.
func (s *Store) GetAll(expr string) Array {
	if arr, ok := s.query(expr, true).(Array); ok {
		return arr
	}
	return Array{}
}

func (s *Store) query(expr string, forceList bool) Value {
	if s.doc == nil {
		return nil
	}
	cache := s.single
	if forceList {
		cache = s.list
	}
	if s.caching {
		if item := cache.Get(expr); item != nil {
			return item.Value()
		}
	}
	v := s.evaluate(expr, forceList)
	if s.caching {
		cache.Set(expr, v, ttlcache.NoTTL)
	}
	return v
}

func (s *Store) evaluate(expr string, forceList bool) Value {
	nodes, err := xmlquery.QueryAll(s.doc, expr)
	if err != nil {
		// Malformed expression; indistinguishable from an empty result.
		if forceList {
			return Array{}
		}
		return nil
	}
	if len(nodes) == 1 {
		v := convertNode(nodes[0])
		if forceList {
			return Array{v}
		}
		return v
	}
	out := make(Array, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, convertNode(n))
	}
	if len(out) == 0 && !forceList {
		return nil
	}
	return out
}

// loadDefault retries Load with the configured default document, unless the
// failing path already is the default or no default is configured.
func (s *Store) loadDefault(failed string) {
	if s.defaultPath != "" && failed != s.defaultPath {
		s.Load(s.defaultPath)
	}
}

var xsdRuntimeOnce sync.Once

// install validates data against the configured schema and, on success,
// parses it, strips comment and processing-instruction nodes, installs the
// document and clears both query caches. On validation failure it emits one
// diagnostic per error and falls back to the default document. The previous
// document is never rolled back; it is only ever replaced by a successful
// install.
func (s *Store) install(data []byte, source string) {
	if s.schemaPath == "" {
		s.warnf("xmlconfig: a valid schema file must be provided")
		return
	}

	// Initialization is process-wide. When the embedding application already
	// initialized the validator the repeated call is redundant, and a real
	// failure resurfaces from NewXsdHandlerUrl below.
	xsdRuntimeOnce.Do(func() { _ = xsdvalidate.Init() })

	handler, err := xsdvalidate.NewXsdHandlerUrl(s.schemaPath, xsdvalidate.ParsErrDefault)
	if err != nil {
		s.warnf("xmlconfig: schema %s: %v", s.schemaPath, err)
		return
	}
	defer handler.Free()

	if err := handler.ValidateMem(data, xsdvalidate.ValidErrDefault); err != nil {
		s.reportValidation(source, err)
		s.loadDefault(source)
		return
	}

	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		// The validator accepted the bytes, so this should not happen.
		s.warnf("xmlconfig: %s: %v", source, err)
		return
	}
	stripNoise(doc)
	s.doc = doc
	s.single.DeleteAll()
	s.list.DeleteAll()
}

// reportValidation emits one diagnostic per validation error, with source
// path and line number when the validator provides them.
func (s *Store) reportValidation(source string, err error) {
	if source == "" {
		source = "document"
	}
	var verr xsdvalidate.ValidationError
	if errors.As(err, &verr) {
		for _, e := range verr.Errors {
			s.warnf("xmlconfig: %s:%d: %s", source, e.Line, strings.TrimSpace(e.Message))
		}
		return
	}
	s.warnf("xmlconfig: %s: %v", source, err)
}

func (s *Store) warnf(format string, args ...any) {
	if s.streams == nil || s.streams.ErrOut() == nil {
		return
	}
	fmt.Fprintf(s.streams.ErrOut(), format+"\n", args...)
}

// stripNoise removes comment and processing-instruction nodes from the tree
// so queries and conversion only see elements, attributes and text.
func stripNoise(n *xmlquery.Node) {
	var drop []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.CommentNode, xmlquery.DeclarationNode:
			drop = append(drop, c)
		default:
			stripNoise(c)
		}
	}
	for _, c := range drop {
		xmlquery.RemoveFromTree(c)
	}
}
