// internal/form/form.go
package form

import (
	"net/url"
)

// Sentinel is the select option meaning "take the value from the paired
// free-text input".
const Sentinel = "Other"

// Field names of the campaign form.
const (
	FieldBusinessName  = "business_name"
	FieldDescription   = "description"
	FieldCategory      = "category"
	FieldCategoryOther = "category_other"
	FieldTarget        = "target"
	FieldTargetOther   = "target_other"
)

// Categories and Targets are the options offered by the two selects.
var (
	Categories = []string{"Food", "Fashion", "Electronics", "Beauty", "Services", Sentinel}
	Targets    = []string{"Awareness", "Growth", "Engagement", "Conversion", Sentinel}
)

// Values holds the raw field values of one submission.
type Values struct {
	BusinessName  string
	Description   string
	Category      string
	CategoryOther string
	Target        string
	TargetOther   string
}

// ValuesFromForm reads the campaign fields out of a parsed form body.
// Missing fields read as empty strings.
func ValuesFromForm(f url.Values) Values {
	return Values{
		BusinessName:  f.Get(FieldBusinessName),
		Description:   f.Get(FieldDescription),
		Category:      f.Get(FieldCategory),
		CategoryOther: f.Get(FieldCategoryOther),
		Target:        f.Get(FieldTarget),
		TargetOther:   f.Get(FieldTargetOther),
	}
}

// OverrideVisible reports whether the free-text input paired with a select
// should be shown for the selected value.
func OverrideVisible(selected string) bool {
	return selected == Sentinel
}

// Resolve returns override when selected is the sentinel, selected otherwise.
func Resolve(selected, override string) string {
	if selected == Sentinel {
		return override
	}
	return selected
}

// ResolvedCategory is the category that gets persisted.
func (v Values) ResolvedCategory() string {
	return Resolve(v.Category, v.CategoryOther)
}

// ResolvedTarget is the target that gets persisted.
func (v Values) ResolvedTarget() string {
	return Resolve(v.Target, v.TargetOther)
}
