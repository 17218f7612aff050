package affiliate

// Repository is the catalog store holding restaurant detail records. Only
// the accrual service mutates records; everything handed outward is cloned
// by the service layer.
type Repository interface {
	// Get returns the live stored record, or false when the id is absent.
	Get(id string) (*RestaurantDetail, bool)
	// List returns the live stored records in insertion order.
	List() []*RestaurantDetail
	// Put inserts or replaces a record, preserving first-insertion order.
	Put(d *RestaurantDetail)
}
