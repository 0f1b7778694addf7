package codec

import (
	"strings"

	"github.com/beevik/etree"
)

// namespace is one prefix declaration of a layout
type namespace struct {
	prefix string
	uri    string
}

// namespaceSet maps the prefixes the writer emits to the URIs the reader matches on.
// Both sides use the same "ram:Name/ram:Child" paths, so documents written with other
// prefixes or a default namespace read the same.
type namespaceSet []namespace

func (s namespaceSet) uri(prefix string) string {
	for _, ns := range s {
		if ns.prefix == prefix {
			return ns.uri
		}
	}
	return ""
}

// declare adds the xmlns attributes to the root element
func (s namespaceSet) declare(root *etree.Element) {
	for _, ns := range s {
		root.CreateAttr("xmlns:"+ns.prefix, ns.uri)
	}
}

var version21Namespaces = namespaceSet{
	{"rsm", "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"},
	{"qdt", "urn:un:unece:uncefact:data:standard:QualifiedDataType:100"},
	{"ram", "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"},
	{"xs", "http://www.w3.org/2001/XMLSchema"},
	{"udt", "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"},
}

var version1Namespaces = namespaceSet{
	{"xsi", "http://www.w3.org/2001/XMLSchema-instance"},
	{"rsm", "urn:ferd:CrossIndustryDocument:invoice:1p0"},
	{"ram", "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:12"},
	{"udt", "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:15"},
}

// step is one resolved path segment
type step struct {
	uri   string
	local string
}

func (s namespaceSet) compile(path string) []step {
	parts := strings.Split(path, "/")
	steps := make([]step, 0, len(parts))
	for _, p := range parts {
		prefix, local, ok := strings.Cut(p, ":")
		if !ok {
			steps = append(steps, step{local: p})
			continue
		}
		steps = append(steps, step{uri: s.uri(prefix), local: local})
	}
	return steps
}

func (st step) matches(e *etree.Element) bool {
	return e.Tag == st.local && e.NamespaceURI() == st.uri
}

// elementPath renders the prefixed path from the root down to e, for error messages
func elementPath(e *etree.Element) string {
	var parts []string
	for cur := e; cur != nil && cur.Tag != ""; cur = cur.Parent() {
		parts = append(parts, cur.FullTag())
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}
