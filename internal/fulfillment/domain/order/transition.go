package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/sla"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/stage"
)

// ImageUpload is a newly supplied image accompanying a transition.
type ImageUpload struct {
	Ref         string
	Description string
}

// TransitionRequest carries everything a caller supplies to move an
// order to its next stage, or to failed. Consumed once; never persisted.
type TransitionRequest struct {
	To            stage.ID
	Confirmed     bool
	Images        []ImageUpload
	PaymentMethod PaymentMethod
	Shipping      *ShippingInfo
	StaffID       *uuid.UUID // responsible staff, optional on every edge
	ScheduledAt   *time.Time // deadline override where the edge allows it
	FailureReason string
	Note          string
}

// EdgeRequirements declares what one pipeline edge demands. The zero
// value is an edge with no requirements.
type EdgeRequirements struct {
	Confirm        bool
	ImageType      stage.ImageType // image type this edge collects, "" for none
	ImageMandatory bool            // must already exist or be supplied now
	PaymentMethod  bool
	Shipping       bool
	AllowsSchedule bool
}

type edge struct {
	from, to stage.ID
}

// One rule set per pipeline edge. Cancellation to failed is handled
// separately because it is legal from every non-terminal stage.
var edgeRules = map[edge]EdgeRequirements{
	{stage.Created, stage.Weighing}:        {Confirm: true},
	{stage.Weighing, stage.CreateInvoice}:  {Confirm: true, ImageType: stage.ImageWeighing, ImageMandatory: true},
	{stage.CreateInvoice, stage.SendPhoto}: {Confirm: true, ImageType: stage.ImageInvoice, ImageMandatory: true},
	{stage.SendPhoto, stage.Payment}:       {Confirm: true},
	{stage.Payment, stage.InKitchen}:       {Confirm: true, ImageType: stage.ImageInvoice, PaymentMethod: true},
	{stage.InKitchen, stage.Processing}:    {AllowsSchedule: true},
	{stage.Processing, stage.Delivery}:     {Shipping: true, AllowsSchedule: true},
	{stage.Delivery, stage.Completed}:      {Confirm: true},
}

// RequirementsFor exposes the rule set for one edge; ok is false when
// the edge is not part of the pipeline.
func RequirementsFor(from, to stage.ID) (EdgeRequirements, bool) {
	r, ok := edgeRules[edge{from, to}]
	return r, ok
}

// Advance validates a transition request against the order's current
// state and, if every check passes, commits it: a new history entry,
// the new stage, any supplied images, and a recomputed deadline. The
// validation short-circuits on the first failure and nothing is changed
// unless all checks pass.
func (o *Order) Advance(req TransitionRequest, now time.Time) (*HistoryEntry, error) {
	if o.IsTerminal() {
		return nil, ErrOrderTerminal
	}

	if req.To == stage.Failed {
		return o.cancel(req, now)
	}

	next, ok := stage.Next(o.currentStage)
	if !ok || req.To != next {
		return nil, ErrIllegalTransition
	}

	rules, ok := RequirementsFor(o.currentStage, req.To)
	if !ok {
		return nil, ErrIllegalTransition
	}

	if rules.Confirm && !req.Confirmed {
		return nil, &IncompleteTransitionError{Field: "confirmation"}
	}

	if rules.ImageMandatory && !o.HasAttachment(rules.ImageType) && len(req.Images) == 0 {
		return nil, &IncompleteTransitionError{Field: string(rules.ImageType) + " image"}
	}

	if rules.PaymentMethod {
		if req.PaymentMethod == "" || !req.PaymentMethod.Valid() {
			return nil, &IncompleteTransitionError{Field: "paymentMethod"}
		}
	}

	if rules.Shipping {
		if req.Shipping == nil {
			return nil, &IncompleteTransitionError{Field: "shipping"}
		}
		switch req.Shipping.Type {
		case ShipExternal:
			if strings.TrimSpace(req.Shipping.Phone) == "" {
				return nil, &IncompleteTransitionError{Field: "shipperPhone"}
			}
		case ShipCompany:
			if strings.TrimSpace(req.Shipping.ShipperID) == "" {
				return nil, &IncompleteTransitionError{Field: "companyShipper"}
			}
		default:
			return nil, &IncompleteTransitionError{Field: "shippingType"}
		}
	}

	if rules.PaymentMethod {
		o.paymentMethod = req.PaymentMethod
	}
	if rules.Shipping {
		shipping := *req.Shipping
		o.shipping = &shipping
	}

	var override *time.Time
	if rules.AllowsSchedule {
		override = req.ScheduledAt
	}
	entry := o.commit(req, override, now)

	if rules.ImageType != "" {
		for _, img := range req.Images {
			o.AddAttachment(rules.ImageType, img.Ref, img.Description, req.StaffID, now)
		}
	}

	return entry, nil
}

// cancel moves the order to failed from any non-terminal stage. A
// non-empty reason is mandatory so the audit trail explains the failure.
func (o *Order) cancel(req TransitionRequest, now time.Time) (*HistoryEntry, error) {
	reason := strings.TrimSpace(req.FailureReason)
	if reason == "" {
		return nil, ErrInvalidFailureReason
	}

	o.failureReason = reason
	if req.Note == "" {
		req.Note = reason
	}
	entry := o.commit(req, nil, now)

	return entry, nil
}

// commit appends the history entry, moves the stage pointer, recomputes
// the deadline, and raises the stage-changed event.
func (o *Order) commit(req TransitionRequest, deadlineOverride *time.Time, now time.Time) *HistoryEntry {
	from := o.currentStage
	entry := HistoryEntry{
		Stage:     req.To,
		EnteredAt: now,
		EnteredBy: req.StaffID,
		Note:      req.Note,
	}

	o.history = append(o.history, entry)
	o.currentStage = req.To
	o.deadline = sla.DeadlineFor(req.To, now)
	if deadlineOverride != nil {
		o.deadline = deadlineOverride
	}
	if req.StaffID != nil && !o.isAssigned(*req.StaffID) {
		o.assigned = append(o.assigned, *req.StaffID)
	}
	o.Touch()

	o.AddDomainEvent(NewOrderStageChanged(o.ID(), from, req.To, entry, o.deadline, o.failureReason))

	return &o.history[len(o.history)-1]
}

func (o *Order) isAssigned(staffID uuid.UUID) bool {
	for _, id := range o.assigned {
		if id == staffID {
			return true
		}
	}
	return false
}
