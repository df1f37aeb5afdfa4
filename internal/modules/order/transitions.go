package order

// validTransitions defines the allowed status state machine. Editing a draft is
// not a status change and is handled by the aggregate directly.
var validTransitions = map[Status][]Status{
	StatusDraft:               {StatusPending},
	StatusPending:             {StatusApproved, StatusInTransitIntl, StatusArrivedAtHub, StatusOutForLocalDelivery, StatusCancelRequested, StatusDelivered},
	StatusApproved:            {StatusInTransitIntl, StatusArrivedAtHub, StatusOutForLocalDelivery, StatusDelivered},
	StatusInTransitIntl:       {StatusArrivedAtHub, StatusOutForLocalDelivery, StatusDelivered},
	StatusArrivedAtHub:        {StatusOutForLocalDelivery, StatusDelivered},
	StatusOutForLocalDelivery: {StatusDelivered},
	StatusCancelRequested:     {StatusCancelled, StatusDelivered},
	StatusDelivered:           {},
	StatusCancelled:           {},
}

// stages are the statuses staff may advance an order into.
var stages = map[Status]bool{
	StatusApproved:            true,
	StatusInTransitIntl:       true,
	StatusArrivedAtHub:        true,
	StatusOutForLocalDelivery: true,
}

// CanTransition returns true if moving from current to next is allowed.
func CanTransition(current, next Status) bool {
	allowed, ok := validTransitions[current]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}
