package validation

import "strconv"

// Typed accessors. They assume the matching rules already passed and fall
// back to zero values otherwise.

// ProductID returns the `:id` parameter as a product ID.
func (in *Input) ProductID() uint {
	id, _ := strconv.ParseUint(in.ID, 10, strconv.IntSize)
	return uint(id)
}

// Name returns the `name` body field.
func (in *Input) Name() string {
	value, present := in.Body["name"]
	return stringify(value, present)
}

// Price returns the `price` body field.
func (in *Input) Price() float64 {
	value, present := in.Body["price"]
	price, _ := toFloat(value, present)
	return price
}

// Availability returns the `availability` body field and whether it was
// given as a valid boolean.
func (in *Input) Availability() (bool, bool) {
	value, present := in.Body["availability"]
	return toBool(value, present)
}
