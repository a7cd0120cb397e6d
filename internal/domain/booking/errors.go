package booking

import "errors"

// ErrBookingNotFound indicates no booking carries the requested ID
var ErrBookingNotFound = errors.New("booking: not found")

// Find returns the booking with the given ID
func Find(bookings []Booking, id string) (Booking, error) {
	for _, b := range bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return Booking{}, ErrBookingNotFound
}
