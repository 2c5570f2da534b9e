package persistence

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/stage"
)

// JSON documents for the aggregate's nested collections. Scalar order
// columns stay relational so they can be filtered and indexed; the
// collections ride along as documents because they are only ever read
// back whole.

type customerDoc struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type lineItemDoc struct {
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   int64   `json:"unit_price"`
	Note        string  `json:"note,omitempty"`
}

type historyDoc struct {
	Stage     string     `json:"stage"`
	EnteredAt time.Time  `json:"entered_at"`
	EnteredBy *uuid.UUID `json:"entered_by,omitempty"`
	Note      string     `json:"note,omitempty"`
}

type attachmentDoc struct {
	ID          uuid.UUID  `json:"id"`
	Type        string     `json:"type"`
	Ref         string     `json:"ref"`
	Description string     `json:"description,omitempty"`
	UploadedBy  *uuid.UUID `json:"uploaded_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type shippingDoc struct {
	Type        string `json:"type"`
	ShipperName string `json:"shipper_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	ShipperID   string `json:"shipper_id,omitempty"`
}

// orderRecord is the flattened storage shape shared by both backends.
type orderRecord struct {
	ID            uuid.UUID
	OrderNumber   string
	Customer      []byte
	Items         []byte
	ShippingFee   int64
	OtherFees     int64
	CurrentStage  string
	History       []byte
	Assigned      []byte
	Attachments   []byte
	Deadline      *time.Time
	Notes         string
	FailureReason string
	PaymentMethod string
	Shipping      []byte
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func recordFromOrder(o *order.Order) (*orderRecord, error) {
	customer := o.Customer()
	customerJSON, err := json.Marshal(customerDoc{
		Name:    customer.Name,
		Phone:   customer.Phone,
		Address: customer.Address,
	})
	if err != nil {
		return nil, err
	}

	items := make([]lineItemDoc, 0, len(o.LineItems()))
	for _, li := range o.LineItems() {
		items = append(items, lineItemDoc{
			ProductName: li.ProductName,
			Quantity:    li.Quantity,
			Unit:        li.Unit,
			UnitPrice:   li.UnitPrice,
			Note:        li.Note,
		})
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

	history := make([]historyDoc, 0, len(o.History()))
	for _, entry := range o.History() {
		history = append(history, historyDoc{
			Stage:     entry.Stage.String(),
			EnteredAt: entry.EnteredAt,
			EnteredBy: entry.EnteredBy,
			Note:      entry.Note,
		})
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return nil, err
	}

	assigned := o.AssignedStaff()
	if assigned == nil {
		assigned = []uuid.UUID{}
	}
	assignedJSON, err := json.Marshal(assigned)
	if err != nil {
		return nil, err
	}

	attachments := make([]attachmentDoc, 0, len(o.Attachments()))
	for _, att := range o.Attachments() {
		attachments = append(attachments, attachmentDoc{
			ID:          att.ID,
			Type:        string(att.Type),
			Ref:         att.Ref,
			Description: att.Description,
			UploadedBy:  att.UploadedBy,
			CreatedAt:   att.CreatedAt,
		})
	}
	attachmentsJSON, err := json.Marshal(attachments)
	if err != nil {
		return nil, err
	}

	var shippingJSON []byte
	if shipping := o.Shipping(); shipping != nil {
		shippingJSON, err = json.Marshal(shippingDoc{
			Type:        string(shipping.Type),
			ShipperName: shipping.ShipperName,
			Phone:       shipping.Phone,
			ShipperID:   shipping.ShipperID,
		})
		if err != nil {
			return nil, err
		}
	}

	return &orderRecord{
		ID:            o.ID(),
		OrderNumber:   o.OrderNumber(),
		Customer:      customerJSON,
		Items:         itemsJSON,
		ShippingFee:   o.ShippingFee(),
		OtherFees:     o.OtherFees(),
		CurrentStage:  o.CurrentStage().String(),
		History:       historyJSON,
		Assigned:      assignedJSON,
		Attachments:   attachmentsJSON,
		Deadline:      o.Deadline(),
		Notes:         o.Notes(),
		FailureReason: o.FailureReason(),
		PaymentMethod: string(o.PaymentMethod()),
		Shipping:      shippingJSON,
		Version:       o.Version(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
	}, nil
}

func (rec *orderRecord) toOrder() (*order.Order, error) {
	var customer customerDoc
	if err := json.Unmarshal(rec.Customer, &customer); err != nil {
		return nil, err
	}

	var items []lineItemDoc
	if err := json.Unmarshal(rec.Items, &items); err != nil {
		return nil, err
	}
	lineItems := make([]order.LineItem, 0, len(items))
	for _, li := range items {
		lineItems = append(lineItems, order.LineItem{
			ProductName: li.ProductName,
			Quantity:    li.Quantity,
			Unit:        li.Unit,
			UnitPrice:   li.UnitPrice,
			Note:        li.Note,
		})
	}

	var history []historyDoc
	if err := json.Unmarshal(rec.History, &history); err != nil {
		return nil, err
	}
	entries := make([]order.HistoryEntry, 0, len(history))
	for _, h := range history {
		entries = append(entries, order.HistoryEntry{
			Stage:     stage.ID(h.Stage),
			EnteredAt: h.EnteredAt,
			EnteredBy: h.EnteredBy,
			Note:      h.Note,
		})
	}

	var assigned []uuid.UUID
	if err := json.Unmarshal(rec.Assigned, &assigned); err != nil {
		return nil, err
	}

	var attachmentDocs []attachmentDoc
	if err := json.Unmarshal(rec.Attachments, &attachmentDocs); err != nil {
		return nil, err
	}
	attachments := make([]order.Attachment, 0, len(attachmentDocs))
	for _, att := range attachmentDocs {
		attachments = append(attachments, order.Attachment{
			ID:          att.ID,
			Type:        stage.ImageType(att.Type),
			Ref:         att.Ref,
			Description: att.Description,
			UploadedBy:  att.UploadedBy,
			CreatedAt:   att.CreatedAt,
		})
	}

	var shipping *order.ShippingInfo
	if len(rec.Shipping) > 0 {
		var doc shippingDoc
		if err := json.Unmarshal(rec.Shipping, &doc); err != nil {
			return nil, err
		}
		shipping = &order.ShippingInfo{
			Type:        order.ShippingType(doc.Type),
			ShipperName: doc.ShipperName,
			Phone:       doc.Phone,
			ShipperID:   doc.ShipperID,
		}
	}

	return order.Rehydrate(order.RehydrateParams{
		ID:            rec.ID,
		OrderNumber:   rec.OrderNumber,
		Customer:      order.Customer{Name: customer.Name, Phone: customer.Phone, Address: customer.Address},
		Items:         lineItems,
		ShippingFee:   rec.ShippingFee,
		OtherFees:     rec.OtherFees,
		CurrentStage:  stage.ID(rec.CurrentStage),
		History:       entries,
		Assigned:      assigned,
		Attachments:   attachments,
		Deadline:      rec.Deadline,
		Notes:         rec.Notes,
		FailureReason: rec.FailureReason,
		PaymentMethod: order.PaymentMethod(rec.PaymentMethod),
		Shipping:      shipping,
		Version:       rec.Version,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}), nil
}
