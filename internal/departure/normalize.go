package departure

import (
	"fmt"
	"time"
)

// WireLayout is the documented timestamp format, e.g. 2024-03-01T14:40:00+0100.
const WireLayout = "2006-01-02T15:04:05-0700"

// The service also emits RFC 3339 offsets (+01:00), which are accepted and
// stripped the same way.
var wireLayouts = []string{WireLayout, time.RFC3339}

// ParseTimestamp parses a wire timestamp and discards its offset without
// converting: 14:40+0100 becomes 14:40 local.
func ParseTimestamp(value string) (time.Time, error) {
	var firstErr error
	for _, layout := range wireLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.Local), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// Normalize flattens one estimated call. Every field is required; the first
// one missing or unparseable is reported as a *MalformedResponseError.
func Normalize(call EstimatedCall) (Departure, error) {
	if call.Quay == nil || call.Quay.Name == nil {
		return Departure{}, Missing("quay.name")
	}
	if call.Realtime == nil {
		return Departure{}, Missing("realtime")
	}
	if call.ServiceJourney == nil || call.ServiceJourney.Line == nil || call.ServiceJourney.Line.PublicCode == nil {
		return Departure{}, Missing("serviceJourney.line.publicCode")
	}
	if call.DestinationDisplay == nil || call.DestinationDisplay.FrontText == nil {
		return Departure{}, Missing("destinationDisplay.frontText")
	}

	aimed, err := timestampField("aimedArrivalTime", call.AimedArrivalTime)
	if err != nil {
		return Departure{}, err
	}
	expected, err := timestampField("expectedArrivalTime", call.ExpectedArrivalTime)
	if err != nil {
		return Departure{}, err
	}

	return Departure{
		PlatformName:        *call.Quay.Name,
		Realtime:            *call.Realtime,
		LineNr:              *call.ServiceJourney.Line.PublicCode,
		LineName:            *call.DestinationDisplay.FrontText,
		AimedArrivalTime:    aimed,
		ExpectedArrivalTime: expected,
	}, nil
}

// NormalizeAll flattens a whole batch in order. A single bad call fails the
// batch; no partial list is returned.
func NormalizeAll(calls []EstimatedCall) ([]Departure, error) {
	deps := make([]Departure, 0, len(calls))
	for i, call := range calls {
		dep, err := Normalize(call)
		if err != nil {
			return nil, fmt.Errorf("estimated call %d: %w", i, err)
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

func timestampField(field string, value *string) (time.Time, error) {
	if value == nil {
		return time.Time{}, Missing(field)
	}
	t, err := ParseTimestamp(*value)
	if err != nil {
		return time.Time{}, &MalformedResponseError{Field: field, Value: *value, Err: err}
	}
	return t, nil
}
