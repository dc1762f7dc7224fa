package doctree

// SectionKind identifies one of the template's named top-level
// collections.
type SectionKind int

const (
	SectionUnknown SectionKind = iota
	SectionParameters
	SectionResources
	SectionMappings
	SectionConditions
	SectionOutputs
	SectionMetadata
	SectionTransform
	SectionRules
)

var sectionKeys = map[SectionKind]string{
	SectionParameters: "Parameters",
	SectionResources:  "Resources",
	SectionMappings:   "Mappings",
	SectionConditions: "Conditions",
	SectionOutputs:    "Outputs",
	SectionMetadata:   "Metadata",
	SectionTransform:  "Transform",
	SectionRules:      "Rules",
}

// Key returns the section's top-level key in the template.
func (k SectionKind) Key() string {
	return sectionKeys[k]
}

func (k SectionKind) String() string {
	if s, ok := sectionKeys[k]; ok {
		return s
	}
	return "Unknown"
}

// SectionKindForKey maps a top-level key back to its section kind.
func SectionKindForKey(key string) (SectionKind, bool) {
	for k, s := range sectionKeys {
		if s == key {
			return k, true
		}
	}
	return SectionUnknown, false
}

// SectionKinds returns every recognized section in canonical order.
func SectionKinds() []SectionKind {
	return []SectionKind{
		SectionParameters,
		SectionResources,
		SectionMappings,
		SectionConditions,
		SectionOutputs,
		SectionMetadata,
		SectionTransform,
		SectionRules,
	}
}

// ReferenceTargetSections lists the sections whose entities can be
// named from inside another entity's body.
func ReferenceTargetSections() []SectionKind {
	return []SectionKind{
		SectionParameters,
		SectionResources,
		SectionConditions,
		SectionMappings,
	}
}
