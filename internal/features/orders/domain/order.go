package domain

import "strings"

// FulfillmentStatus is the display fulfillment status reported by the commerce platform.
// Values outside the known set are passed through unchanged.
type FulfillmentStatus string

const (
	FulfillmentStatusUnfulfilled        FulfillmentStatus = "UNFULFILLED"
	FulfillmentStatusPartiallyFulfilled FulfillmentStatus = "PARTIALLY_FULFILLED"
	FulfillmentStatusFulfilled          FulfillmentStatus = "FULFILLED"
	FulfillmentStatusRestocked          FulfillmentStatus = "RESTOCKED"
	FulfillmentStatusPendingFulfillment FulfillmentStatus = "PENDING_FULFILLMENT"
	FulfillmentStatusOpen               FulfillmentStatus = "OPEN"
	FulfillmentStatusInProgress         FulfillmentStatus = "IN_PROGRESS"
	FulfillmentStatusOnHold             FulfillmentStatus = "ON_HOLD"
	FulfillmentStatusScheduled          FulfillmentStatus = "SCHEDULED"
	FulfillmentStatusRequestDeclined    FulfillmentStatus = "REQUEST_DECLINED"
)

// EstimatedDeliveryPlaceholder stands in for a carrier ETA, which is not computed.
const EstimatedDeliveryPlaceholder = "Calculated based on carrier..."

// TrackingInfo represents one carrier tracking entry of a fulfillment.
type TrackingInfo struct {
	// Carrier is the shipping company name (e.g., UPS, DHL).
	Carrier string `json:"carrier"`
	// Number is the carrier tracking number.
	Number string `json:"number"`
	// URL is the carrier tracking page, when known.
	URL string `json:"url"`
}

// Fulfillment is one shipment of an order.
type Fulfillment struct {
	// Tracking holds the tracking entries in platform order.
	Tracking []TrackingInfo `json:"tracking"`
}

// OrderItem represents an individual line item within an order.
type OrderItem struct {
	// Name is the descriptive name of the product.
	Name string `json:"name"`
	// Quantity is the number of units purchased.
	Quantity int `json:"quantity"`
}

// Order is a read-only view of a storefront order.
type Order struct {
	// ID is the platform global identifier.
	ID string `json:"id"`
	// Name is the display name, e.g. "#1001".
	Name string `json:"name"`
	// Email is the contact email of the owner.
	Email string `json:"email"`
	// Status is the display fulfillment status.
	Status FulfillmentStatus `json:"status"`
	// Fulfillments lists the shipments in platform order.
	Fulfillments []Fulfillment `json:"fulfillments"`
	// Items contains the line items of the order.
	Items []OrderItem `json:"items"`
}

// OwnedBy reports whether email matches the order's owner, ignoring case.
func (o *Order) OwnedBy(email string) bool {
	if o.Email == "" || email == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(o.Email), strings.TrimSpace(email))
}

// PrimaryTracking returns the first tracking entry of the first fulfillment, or nil.
func (o *Order) PrimaryTracking() *TrackingInfo {
	if len(o.Fulfillments) == 0 || len(o.Fulfillments[0].Tracking) == 0 {
		return nil
	}
	t := o.Fulfillments[0].Tracking[0]
	return &t
}

// ItemNames returns the line item names in order.
func (o *Order) ItemNames() []string {
	names := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		names = append(names, item.Name)
	}
	return names
}
