package model

type Listing struct {
	ID           string       `json:"id" bson:"_id,omitempty"`
	HostID       string       `json:"host_id" bson:"host_id"`
	Title        string       `json:"title" bson:"title"`
	PricingModel PricingModel `json:"pricing_model" bson:"pricing_model"`
	PricePerDay  *float64     `json:"price_per_day,omitempty" bson:"price_per_day,omitempty"`
	PricePerHour *float64     `json:"price_per_hour,omitempty" bson:"price_per_hour,omitempty"`
}

// UnitPrice returns the price for one unit of the listing's pricing model,
// or false when the matching price is not set.
func (l *Listing) UnitPrice() (float64, bool) {
	switch l.PricingModel {
	case PricingDaily:
		if l.PricePerDay != nil {
			return *l.PricePerDay, true
		}
	case PricingHourly:
		if l.PricePerHour != nil {
			return *l.PricePerHour, true
		}
	}
	return 0, false
}
