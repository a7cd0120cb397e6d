package shared

// Collection names one persisted record collection. It doubles as the
// notification topic signalled whenever the collection is saved.
type Collection string

const (
	CollectionBookings Collection = "bookings"
	CollectionPayments Collection = "payments"
	CollectionLedger   Collection = "ledger"
)

// Collections lists every collection the engine persists
var Collections = []Collection{CollectionBookings, CollectionPayments, CollectionLedger}

// Valid reports whether c is one of the known collections
func (c Collection) Valid() bool {
	for _, known := range Collections {
		if c == known {
			return true
		}
	}
	return false
}

func (c Collection) String() string {
	return string(c)
}
