package payment

import "errors"

// ErrPaymentNotFound indicates no payment record carries the requested ID
var ErrPaymentNotFound = errors.New("payment: not found")

// Find returns the payment record with the given ID
func Find(records []Record, id string) (Record, error) {
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, ErrPaymentNotFound
}
