package stage

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownStage is returned when a stage identifier is not part of the pipeline.
var ErrUnknownStage = errors.New("unknown stage")

// ID identifies a pipeline stage.
type ID string

const (
	Created       ID = "created"
	Weighing      ID = "weighing"
	CreateInvoice ID = "create_invoice"
	SendPhoto     ID = "send_photo"
	Payment       ID = "payment"
	InKitchen     ID = "in_kitchen"
	Processing    ID = "processing"
	Delivery      ID = "delivery"
	Completed     ID = "completed"
	Failed        ID = "failed"
)

func (id ID) String() string { return string(id) }

// IsTerminal returns true for the two end states of the pipeline.
func (id ID) IsTerminal() bool {
	return id == Completed || id == Failed
}

// ImageType tags an order attachment.
type ImageType string

const (
	ImageWeighing   ImageType = "weighing"
	ImageInvoice    ImageType = "invoice"
	ImageAttachment ImageType = "attachment"
)

// Definition describes one pipeline stage: its label and time budget.
// StandardDuration is zero for terminal stages, which carry no deadline.
type Definition struct {
	ID               ID
	Label            string
	StandardDuration time.Duration
	WarningThreshold time.Duration
	RequiredImages   []ImageType
}

// Pipeline order is fixed. Durations and thresholds are business constants
// carried over from the dashboard they were tuned for.
var definitions = []Definition{
	{ID: Created, Label: "Order created", StandardDuration: 15 * time.Minute, WarningThreshold: 10 * time.Minute},
	{ID: Weighing, Label: "Weighing", StandardDuration: 20 * time.Minute, WarningThreshold: 15 * time.Minute, RequiredImages: []ImageType{ImageWeighing}},
	{ID: CreateInvoice, Label: "Create invoice", StandardDuration: 10 * time.Minute, WarningThreshold: 7 * time.Minute, RequiredImages: []ImageType{ImageInvoice}},
	{ID: SendPhoto, Label: "Send photo", StandardDuration: 10 * time.Minute, WarningThreshold: 7 * time.Minute},
	{ID: Payment, Label: "Payment", StandardDuration: 30 * time.Minute, WarningThreshold: 20 * time.Minute},
	{ID: InKitchen, Label: "In kitchen", StandardDuration: 60 * time.Minute, WarningThreshold: 45 * time.Minute},
	{ID: Processing, Label: "Processing", StandardDuration: 45 * time.Minute, WarningThreshold: 30 * time.Minute},
	{ID: Delivery, Label: "Delivery", StandardDuration: 30 * time.Minute, WarningThreshold: 20 * time.Minute},
	{ID: Completed, Label: "Completed"},
	{ID: Failed, Label: "Failed"},
}

var byID = func() map[ID]Definition {
	m := make(map[ID]Definition, len(definitions))
	for _, d := range definitions {
		m[d.ID] = d
	}
	return m
}()

// ByID looks up a stage definition.
func ByID(id ID) (Definition, error) {
	d, ok := byID[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownStage, id)
	}
	return d, nil
}

// All returns every stage definition in pipeline order, terminals last.
func All() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// NonTerminal returns the active pipeline stages in order.
func NonTerminal() []Definition {
	out := make([]Definition, 0, len(definitions)-2)
	for _, d := range definitions {
		if !d.ID.IsTerminal() {
			out = append(out, d)
		}
	}
	return out
}

// Index returns the position of a stage among the non-terminal stages,
// or -1 for terminal or unknown stages.
func Index(id ID) int {
	for i, d := range NonTerminal() {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// Next returns the successor of a non-terminal stage. Past the last
// non-terminal stage it returns Completed. Terminal stages have no
// successor and return false.
func Next(id ID) (ID, bool) {
	if id.IsTerminal() {
		return "", false
	}
	active := NonTerminal()
	idx := Index(id)
	if idx == -1 {
		return "", false
	}
	if idx == len(active)-1 {
		return Completed, true
	}
	return active[idx+1].ID, true
}

// RequiredImages returns the attachment types a stage demands before it
// can be left, or nil when it has none.
func RequiredImages(id ID) []ImageType {
	d, ok := byID[id]
	if !ok {
		return nil
	}
	return d.RequiredImages
}
