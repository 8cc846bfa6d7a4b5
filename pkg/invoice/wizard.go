package invoice

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"homezen/pkg/forms"
)

type Kind string

const (
	KindRent        Kind = "rent"
	KindMaintenance Kind = "maintenance"
)

type Step string

const (
	StepType     Step = "type"
	StepProperty Step = "property"
	StepUnit     Step = "unit"
	StepTenant   Step = "tenant"
	StepDetails  Step = "details"
	StepConfirm  Step = "confirm"
)

var (
	rentSteps        = []Step{StepType, StepProperty, StepUnit, StepDetails, StepConfirm}
	maintenanceSteps = []Step{StepType, StepTenant, StepDetails, StepConfirm}

	ErrNotConfirmed = errors.New("invoice wizard is not at the confirmation step")
)

// Wizard is the state of the generate-invoice flow. Every field travels
// in the form, so a Wizard is rebuilt from each submission.
type Wizard struct {
	Step        Step
	Kind        Kind
	PropertyID  string
	UnitID      string
	TenantID    string
	Description string
	Amount      string
	DateDue     string
}

func NewWizard() Wizard {
	return Wizard{Step: StepType}
}

func FromForm(v url.Values) Wizard {
	w := Wizard{
		Step:        Step(v.Get("step")),
		Kind:        Kind(v.Get("kind")),
		PropertyID:  strings.TrimSpace(v.Get("property_id")),
		UnitID:      strings.TrimSpace(v.Get("unit_id")),
		TenantID:    strings.TrimSpace(v.Get("tenant_id")),
		Description: strings.TrimSpace(v.Get("description")),
		Amount:      strings.TrimSpace(v.Get("amount")),
		DateDue:     strings.TrimSpace(v.Get("date_due")),
	}
	if !w.onPath(w.Step) {
		w.Step = StepType
	}
	return w
}

// Values is the inverse of FromForm, used for hidden inputs.
func (w Wizard) Values() url.Values {
	v := url.Values{}
	v.Set("step", string(w.Step))
	v.Set("kind", string(w.Kind))
	v.Set("property_id", w.PropertyID)
	v.Set("unit_id", w.UnitID)
	v.Set("tenant_id", w.TenantID)
	v.Set("description", w.Description)
	v.Set("amount", w.Amount)
	v.Set("date_due", w.DateDue)
	return v
}

// Steps is the path through the wizard for the chosen kind. Before a
// kind is chosen only the first step is known.
func (w Wizard) Steps() []Step {
	switch w.Kind {
	case KindRent:
		return rentSteps
	case KindMaintenance:
		return maintenanceSteps
	default:
		return []Step{StepType}
	}
}

func (w Wizard) onPath(s Step) bool {
	for _, step := range w.Steps() {
		if step == s {
			return true
		}
	}
	return false
}

func (w Wizard) index() int {
	for i, s := range w.Steps() {
		if s == w.Step {
			return i
		}
	}
	return 0
}

// Next validates the current step and moves forward along the branch.
func (w Wizard) Next() (Wizard, error) {
	if err := w.check(w.Step); err != nil {
		return w, err
	}
	steps := w.Steps()
	if i := w.index(); i+1 < len(steps) {
		w.Step = steps[i+1]
	}
	return w, nil
}

func (w Wizard) Back() Wizard {
	if i := w.index(); i > 0 {
		w.Step = w.Steps()[i-1]
	}
	return w
}

// Complete re-checks every step of the branch. Hidden fields come back
// from the browser, so nothing earlier is trusted.
func (w Wizard) Complete() error {
	if w.Step != StepConfirm {
		return ErrNotConfirmed
	}
	for _, s := range w.Steps() {
		if err := w.check(s); err != nil {
			return err
		}
	}
	return nil
}

type typeStep struct {
	Kind string `json:"kind" label:"invoice type" validate:"required,oneof=rent maintenance"`
}

type propertyStep struct {
	PropertyID string `json:"property_id" label:"property" validate:"required"`
}

type unitStep struct {
	UnitID string `json:"unit_id" label:"unit" validate:"required"`
}

type tenantStep struct {
	TenantID string `json:"tenant_id" label:"tenant" validate:"required"`
}

type rentDetails struct {
	DateDue string `json:"date_due" label:"due date" validate:"required,datetime=2006-01-02"`
}

type maintenanceDetails struct {
	Description string `json:"description" validate:"required"`
	Amount      string `json:"amount" validate:"required,numeric"`
	DateDue     string `json:"date_due" label:"due date" validate:"required,datetime=2006-01-02"`
}

func (w Wizard) check(s Step) error {
	switch s {
	case StepType:
		return forms.Validate(&typeStep{Kind: string(w.Kind)})
	case StepProperty:
		return forms.Validate(&propertyStep{PropertyID: w.PropertyID})
	case StepUnit:
		return forms.Validate(&unitStep{UnitID: w.UnitID})
	case StepTenant:
		return forms.Validate(&tenantStep{TenantID: w.TenantID})
	case StepDetails:
		if w.Kind == KindRent {
			return forms.Validate(&rentDetails{DateDue: w.DateDue})
		}
		if err := forms.Validate(&maintenanceDetails{Description: w.Description, Amount: w.Amount, DateDue: w.DateDue}); err != nil {
			return err
		}
		if amount, _ := strconv.ParseFloat(w.Amount, 64); amount <= 0 {
			return forms.Invalid("amount", "Amount must be greater than 0.")
		}
	}
	return nil
}

func (w Wizard) AmountValue() float64 {
	amount, _ := strconv.ParseFloat(w.Amount, 64)
	return amount
}
