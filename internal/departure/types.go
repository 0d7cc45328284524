package departure

import "time"

// Departure is one estimated call at one platform, flattened out of the
// journey planner response. Both timestamps are naive: wall clock as sent by
// the service, placed in the local zone.
type Departure struct {
	PlatformName        string
	Realtime            bool
	LineNr              string
	LineName            string
	AimedArrivalTime    time.Time
	ExpectedArrivalTime time.Time
}

// EstimatedCall mirrors one entry of quay.estimatedCalls. Every field is a
// pointer so that an absent key and an explicit null both read as missing.
type EstimatedCall struct {
	Quay                *QuayRef            `json:"quay"`
	Realtime            *bool               `json:"realtime"`
	AimedArrivalTime    *string             `json:"aimedArrivalTime"`
	ExpectedArrivalTime *string             `json:"expectedArrivalTime"`
	ServiceJourney      *ServiceJourney     `json:"serviceJourney"`
	DestinationDisplay  *DestinationDisplay `json:"destinationDisplay"`
}

type QuayRef struct {
	Name *string `json:"name"`
}

type ServiceJourney struct {
	Line *Line `json:"line"`
}

type Line struct {
	PublicCode *string `json:"publicCode"`
}

type DestinationDisplay struct {
	FrontText *string `json:"frontText"`
}
