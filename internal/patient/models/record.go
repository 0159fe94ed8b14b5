package models

// NameUseOfficial tags the legal name of a patient.
const NameUseOfficial = "official"

// HumanName is a FHIR HumanName reduced to the parts matching reads.
type HumanName struct {
	Use    string   `json:"use,omitempty"`
	Family string   `json:"family,omitempty"`
	Given  []string `json:"given,omitempty"`
}

// FullName joins the first given name and the family name with one space.
// ok is false when there is no given name.
func (n HumanName) FullName() (string, bool) {
	if len(n.Given) == 0 {
		return "", false
	}
	return n.Given[0] + " " + n.Family, true
}

// Address is a FHIR Address reduced to the parts matching reads.
type Address struct {
	Line       []string `json:"line,omitempty"`
	City       string   `json:"city,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
}

// CandidateRecord is a FHIR Patient resource owned by the record store.
// It is read-only to this service.
type CandidateRecord struct {
	ResourceType string      `json:"resourceType,omitempty"`
	ID           string      `json:"id,omitempty"`
	Name         []HumanName `json:"name,omitempty"`
	Address      []Address   `json:"address,omitempty"`
	BirthDate    string      `json:"birthDate,omitempty"`
}

// BundleLink is a FHIR Bundle link such as "self" or "next".
type BundleLink struct {
	Relation string `json:"relation"`
	URL      string `json:"url"`
}

// BundleEntry optionally carries a resource.
type BundleEntry struct {
	FullURL  string           `json:"fullUrl,omitempty"`
	Resource *CandidateRecord `json:"resource,omitempty"`
}

// Bundle is one page of search results from the record store.
type Bundle struct {
	ResourceType string        `json:"resourceType,omitempty"`
	Type         string        `json:"type,omitempty"`
	Link         []BundleLink  `json:"link,omitempty"`
	Entry        []BundleEntry `json:"entry,omitempty"`
}

// NextURL returns the "next" page link, if any.
func (b Bundle) NextURL() string {
	for _, l := range b.Link {
		if l.Relation == "next" {
			return l.URL
		}
	}
	return ""
}

// Records flattens the entries that carry a resource, in entry order.
func (b Bundle) Records() []CandidateRecord {
	out := make([]CandidateRecord, 0, len(b.Entry))
	for _, e := range b.Entry {
		if e.Resource != nil {
			out = append(out, *e.Resource)
		}
	}
	return out
}
