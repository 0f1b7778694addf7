package codec

import (
	"github.com/beevik/etree"

	"github.com/rezonia/zugferd/internal/model"
	"github.com/rezonia/zugferd/internal/profile"
)

// Adapter reads and writes one document layout
type Adapter interface {
	// Version returns the layout version
	Version() model.Version

	// CanDecode returns true if the root element belongs to this layout
	CanDecode(root *etree.Element) bool

	// Identify returns the profile identifier carried by the document
	Identify(root *etree.Element) string

	// Encode builds the document for a resolved capability. onCoerce may be nil.
	Encode(d *model.InvoiceDescriptor, c profile.Capability, onCoerce CoerceFunc) (*etree.Document, error)

	// Decode reads the document into a descriptor
	Decode(root *etree.Element) (*model.InvoiceDescriptor, error)
}

// Registry holds all registered adapters
type Registry struct {
	adapters []Adapter
}

// NewRegistry creates registry with both layouts
func NewRegistry() *Registry {
	return &Registry{
		adapters: []Adapter{
			newVersion21Adapter(), // rsm:CrossIndustryInvoice
			newVersion1Adapter(),  // rsm:CrossIndustryDocument
		},
	}
}

// Detect identifies the layout from the root element
func (r *Registry) Detect(root *etree.Element) (Adapter, error) {
	for _, a := range r.adapters {
		if a.CanDecode(root) {
			return a, nil
		}
	}
	return nil, model.NewParseError("", root.FullTag(), "unknown root element, no matching layout found", nil)
}

// RegisterAdapter adds a custom adapter to the registry
func (r *Registry) RegisterAdapter(a Adapter) {
	// Add at the beginning so custom adapters take priority
	r.adapters = append([]Adapter{a}, r.adapters...)
}

// GetAdapter returns the adapter writing a specific version
func (r *Registry) GetAdapter(version model.Version) Adapter {
	for _, a := range r.adapters {
		if a.Version() == version {
			return a
		}
	}
	return nil
}

var defaultRegistry = NewRegistry()
