// Package marva converts between Marva/Sinopia profile JSON documents and
// the relational shape/row model. It is the richest converter: a profile
// document nests resource templates which nest property templates, and the
// whole structure has to survive a round trip through flat statement rows.
package marva

// Property template types.
const (
	TypeLiteral  = "literal"
	TypeResource = "resource"
	TypeLookup   = "lookup"
	TypeList     = "list"
)

// ConfigType marks a profile document.
const ConfigType = "profile"

// Document is one profile file entry as stored by the source system.
type Document struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	ConfigType string   `json:"configType"`
	JSON       Body     `json:"json"`
	Metadata   Metadata `json:"metadata"`
	Created    string   `json:"created,omitempty"`
	Modified   string   `json:"modified,omitempty"`
}

// Body wraps the top-level Profile object.
type Body struct {
	Profile Profile `json:"Profile"`
}

// Metadata carries document timestamps.
type Metadata struct {
	CreateDate string `json:"createDate,omitempty"`
	UpdateDate string `json:"updateDate,omitempty"`
}

// Profile bundles one top-level shape plus its linked resource templates.
type Profile struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	Description       string             `json:"description,omitempty"`
	ResourceTemplates []ResourceTemplate `json:"resourceTemplates"`
}

// ResourceTemplate describes one entity type within a profile.
type ResourceTemplate struct {
	ID                string             `json:"id"`
	ResourceURI       string             `json:"resourceURI,omitempty"`
	ResourceLabel     string             `json:"resourceLabel,omitempty"`
	Remark            string             `json:"remark,omitempty"`
	PropertyTemplates []PropertyTemplate `json:"propertyTemplates"`
}

// PropertyTemplate is one property constraint of a resource template.
// Type is one of literal/resource/lookup/list, each with different
// sub-structure in ValueConstraint.
type PropertyTemplate struct {
	PropertyURI     string           `json:"propertyURI"`
	PropertyLabel   string           `json:"propertyLabel,omitempty"`
	Mandatory       string           `json:"mandatory,omitempty"`
	Repeatable      string           `json:"repeatable,omitempty"`
	Remark          string           `json:"remark,omitempty"`
	Type            string           `json:"type"`
	ValueConstraint *ValueConstraint `json:"valueConstraint,omitempty"`
}

// ValueConstraint holds the type-specific sub-structure of a property
// template.
type ValueConstraint struct {
	Repeatable        string         `json:"repeatable,omitempty"`
	ValueTemplateRefs []string       `json:"valueTemplateRefs,omitempty"`
	UseValuesFrom     []string       `json:"useValuesFrom,omitempty"`
	ValueDataType     *ValueDataType `json:"valueDataType,omitempty"`
	Defaults          []DefaultValue `json:"defaults,omitempty"`
}

// ValueDataType names the literal datatype of a property.
type ValueDataType struct {
	DataTypeURI string `json:"dataTypeURI,omitempty"`
}

// DefaultValue is one default entry; either side may be absent.
type DefaultValue struct {
	DefaultLiteral string `json:"defaultLiteral,omitempty"`
	DefaultURI     string `json:"defaultURI,omitempty"`
}
