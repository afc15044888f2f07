// internal/form/page.go
package form

// Result texts shown after a submission.
const (
	SuccessText = "✅ Campaign saved successfully!"
	FailureText = "❌ Something went wrong. Please try again."
)

// CSS classes used for result feedback.
const (
	ClassPositive = "text-green-400"
	ClassNegative = "text-red-400"
)

// Result is the state of the #result element.
type Result struct {
	Text   string
	Hidden bool
	Class  string
}

// Page is the state of every element the submit handler touches. A fresh
// Page is built per request.
type Page struct {
	Values              Values
	CategoryOtherHidden bool
	TargetOtherHidden   bool
	Result              Result
}

// NewPage returns the page as first served: empty fields, both override
// inputs hidden, no result.
func NewPage() *Page {
	return &Page{
		CategoryOtherHidden: true,
		TargetOtherHidden:   true,
		Result:              Result{Hidden: true},
	}
}

// ToggleCategory applies the select's change rule to the category override.
func (p *Page) ToggleCategory(selected string) {
	p.CategoryOtherHidden = !OverrideVisible(selected)
}

// ToggleTarget applies the select's change rule to the target override.
func (p *Page) ToggleTarget(selected string) {
	p.TargetOtherHidden = !OverrideVisible(selected)
}

// Fill puts submitted values back into the fields and shows the overrides
// their selections call for.
func (p *Page) Fill(v Values) {
	p.Values = v
	p.ToggleCategory(v.Category)
	p.ToggleTarget(v.Target)
}

// Reset empties the form.
func (p *Page) Reset() {
	p.Values = Values{}
}

// Succeed resets the form, re-hides both overrides and shows the success text.
func (p *Page) Succeed() {
	p.Reset()
	p.CategoryOtherHidden = true
	p.TargetOtherHidden = true
	p.Result = Result{Text: SuccessText, Class: ClassPositive}
}

// Fail shows the failure text and leaves the fields as submitted.
func (p *Page) Fail() {
	p.Result = Result{Text: FailureText, Class: ClassNegative}
}
