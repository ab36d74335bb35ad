// Package ontology derives crop fact records from an OWL/XML (OWX)
// ontology document.
//
// The extractor reads three kinds of statements:
//
//   - AnnotationAssertion with a Literal: rdfs:label annotations, indexed
//     as IRI → label.
//   - ClassAssertion of the simple Class + NamedIndividual form: class
//     membership, indexed as individual IRI → class IRIs.
//   - ClassAssertion carrying an ObjectSomeValuesFrom restriction: an
//     object-property edge subject —property→ target, where the target is
//     the restriction's NamedIndividual when present, else its Class.
//
// The assertion graph is kept as an explicit edge list plus the two
// indices; the model is read-only after parsing, so no object references
// are followed.
package ontology

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/krishimitra/crop-advisor/internal/domain"
)

// ErrNoCrops is returned when the document yields zero crop individuals.
// The knowledge store must not start with an empty crop set.
var ErrNoCrops = errors.New("no crops derived from ontology")

// cropClassLabel identifies the class whose individuals become crop records.
const cropClassLabel = "crop"

// Object properties that carry crop facts. Everything else is ignored.
const (
	propGrowsIn           = "growsIn"
	propSuitableFor       = "suitableFor"
	propHasMarketValue    = "hasMarketValue"
	propHasSustainability = "hasSustainabilityScore"
)

// OWX document model. Only the statement forms listed in the package
// comment are decoded; unknown elements are skipped by encoding/xml.

type document struct {
	XMLName     xml.Name              `xml:"Ontology"`
	Annotations []annotationAssertion `xml:"AnnotationAssertion"`
	Assertions  []classAssertion      `xml:"ClassAssertion"`
}

type annotationAssertion struct {
	IRI     string `xml:"IRI"`
	Literal string `xml:"Literal"`
}

type classAssertion struct {
	Class          *iriRef         `xml:"Class"`
	Individual     *iriRef         `xml:"NamedIndividual"`
	SomeValuesFrom *someValuesFrom `xml:"ObjectSomeValuesFrom"`
}

type someValuesFrom struct {
	Property   *iriRef `xml:"ObjectProperty"`
	Class      *iriRef `xml:"Class"`
	Individual *iriRef `xml:"NamedIndividual"`
}

type iriRef struct {
	IRI string `xml:"IRI,attr"`
}

// edge is one object-property assertion in the graph.
type edge struct {
	subject  string
	property string
	target   string
}

// model holds the parsed statement indices.
type model struct {
	labelByIRI  map[string]string
	classesOf   map[string][]string // individual IRI → asserted class IRIs, document order
	edges       []edge
	individuals []string // individuals in first-assertion order
}

// ExtractFile parses the OWX document at path and derives crop facts.
func ExtractFile(path string) ([]domain.Crop, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ontology: %w", err)
	}
	return Extract(data)
}

// Extract parses an OWX document and derives the crop fact set.
// It fails with ErrNoCrops when no class labelled "Crop" exists or no
// individual is asserted to instantiate it.
func Extract(data []byte) ([]domain.Crop, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse ontology document: %w", err)
	}

	m := buildModel(doc)

	cropClassIRI, ok := m.findClassByLabel(cropClassLabel)
	if !ok {
		return nil, fmt.Errorf("%w: no class labelled %q", ErrNoCrops, cropClassLabel)
	}

	var crops []domain.Crop
	for _, ind := range m.individuals {
		if !contains(m.classesOf[ind], cropClassIRI) {
			continue
		}
		crops = append(crops, m.deriveCrop(ind))
	}

	if len(crops) == 0 {
		return nil, fmt.Errorf("%w: no individuals instantiate the crop class", ErrNoCrops)
	}
	return crops, nil
}

func buildModel(doc document) *model {
	m := &model{
		labelByIRI: make(map[string]string),
		classesOf:  make(map[string][]string),
	}

	for _, a := range doc.Annotations {
		if a.IRI != "" && a.Literal != "" {
			m.labelByIRI[a.IRI] = a.Literal
		}
	}

	for _, ca := range doc.Assertions {
		if ca.Individual == nil || ca.Individual.IRI == "" {
			continue
		}
		subject := ca.Individual.IRI

		// Simple form: the individual instantiates a named class.
		if ca.Class != nil && ca.Class.IRI != "" {
			if _, seen := m.classesOf[subject]; !seen {
				m.individuals = append(m.individuals, subject)
			}
			m.classesOf[subject] = append(m.classesOf[subject], ca.Class.IRI)
		}

		// Restriction form: contributes an edge, not a class.
		if osv := ca.SomeValuesFrom; osv != nil && osv.Property != nil {
			target := ""
			switch {
			case osv.Individual != nil && osv.Individual.IRI != "":
				target = osv.Individual.IRI
			case osv.Class != nil && osv.Class.IRI != "":
				target = osv.Class.IRI
			}
			if target != "" {
				m.edges = append(m.edges, edge{subject: subject, property: osv.Property.IRI, target: target})
			}
		}
	}

	return m
}

// findClassByLabel returns the IRI whose label equals want, case-insensitively.
func (m *model) findClassByLabel(want string) (string, bool) {
	for iri, label := range m.labelByIRI {
		if strings.EqualFold(label, want) {
			return iri, true
		}
	}
	return "", false
}

// deriveCrop resolves the outgoing edges of one crop individual into a
// fact record, applying vocabulary checks and defaults.
func (m *model) deriveCrop(ind string) domain.Crop {
	name := m.labelByIRI[ind]
	if name == "" {
		name = iriFragment(ind)
	}

	crop := domain.Crop{
		ID:              strings.ToLower(name),
		Name:            name,
		WaterUsage:      domain.LevelMedium,
		CarbonFootprint: domain.LevelMedium,
		MarketValue:     domain.LevelMedium,
	}

	for _, e := range m.edges {
		if e.subject != ind {
			continue
		}
		label, ok := m.resolveTargetLabel(e.target)
		if !ok {
			continue
		}

		switch m.labelByIRI[e.property] {
		case propGrowsIn:
			// Ontology authors model soil and climate affinity under
			// growsIn interchangeably, so both vocabularies are checked.
			if soil, ok := canonical(domain.SoilTypes, label); ok {
				crop.SuitableSoils = appendUnique(crop.SuitableSoils, soil)
			}
			if climate, ok := canonical(domain.Climates, label); ok {
				crop.SuitableClimates = appendUnique(crop.SuitableClimates, climate)
			}
		case propSuitableFor:
			if climate, ok := canonical(domain.Climates, label); ok {
				crop.SuitableClimates = appendUnique(crop.SuitableClimates, climate)
			}
		case propHasMarketValue:
			if level, ok := canonical([]string{domain.LevelLow, domain.LevelMedium, domain.LevelHigh}, label); ok {
				crop.MarketValue = level
			}
		case propHasSustainability:
			applySustainability(&crop, label)
		}
	}

	if len(crop.SuitableSoils) == 0 {
		crop.SuitableSoils = []string{domain.SoilLoam}
	}
	if len(crop.SuitableClimates) == 0 {
		crop.SuitableClimates = []string{domain.ClimateModerate}
	}
	return crop
}

// resolveTargetLabel prefers a direct label on the target IRI. When the
// target is an unlabelled individual, it falls back to the label of the
// first asserted class that has one, in document order.
func (m *model) resolveTargetLabel(target string) (string, bool) {
	if label, ok := m.labelByIRI[target]; ok {
		return label, true
	}
	for _, class := range m.classesOf[target] {
		if label, ok := m.labelByIRI[class]; ok {
			return label, true
		}
	}
	return "", false
}

// applySustainability interprets a sustainability score label by
// case-insensitive substring. Unmatched labels leave the defaults.
func applySustainability(crop *domain.Crop, label string) {
	lower := strings.ToLower(label)
	if strings.Contains(lower, "highwateruse") {
		crop.WaterUsage = domain.LevelHigh
	}
	if strings.Contains(lower, "lowwateruse") {
		crop.WaterUsage = domain.LevelLow
	}
	if strings.Contains(lower, "highcarbonfootprint") {
		crop.CarbonFootprint = domain.LevelHigh
	}
}

// iriFragment returns the final path segment of an IRI, handling both
// fragment ("#Wheat") and slash ("/Wheat") styles.
func iriFragment(iri string) string {
	if i := strings.LastIndexAny(iri, "/#"); i >= 0 && i+1 < len(iri) {
		return iri[i+1:]
	}
	return iri
}

func canonical(vocabulary []string, label string) (string, bool) {
	for _, v := range vocabulary {
		if strings.EqualFold(v, label) {
			return v, true
		}
	}
	return "", false
}

func appendUnique(tags []string, tag string) []string {
	for _, t := range tags {
		if t == tag {
			return tags
		}
	}
	return append(tags, tag)
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
