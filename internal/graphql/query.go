package graphql

// Query is a GraphQL document plus the variables bound to it at call time.
// Identifiers never appear in Document, so quotes or braces in an id cannot
// change the shape of the query.
type Query struct {
	Name      string         `json:"-"`
	Document  string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

const quayDeparturesDocument = `query QuayDepartures($id: String!, $numberOfDepartures: Int!, $timeRange: Int!) {
    quay(id: $id) {
        estimatedCalls(
            numberOfDepartures: $numberOfDepartures
            timeRange: $timeRange
            omitNonBoarding: true
        ) {
            quay {
                name
            }
            realtime
            aimedArrivalTime
            expectedArrivalTime
            serviceJourney {
                line {
                    publicCode
                }
            }
            destinationDisplay {
                frontText
            }
        }
    }
}`

const stopQuaysDocument = `query StopQuays($id: String!) {
    stopPlace(id: $id) {
        quays {
            id
        }
    }
}`

// QuayDepartures asks for up to numDepartures boarding calls at quayID within
// the next timeRangeSeconds.
func QuayDepartures(quayID string, numDepartures, timeRangeSeconds int) Query {
	return Query{
		Name:     "QuayDepartures",
		Document: quayDeparturesDocument,
		Variables: map[string]any{
			"id":                 quayID,
			"numberOfDepartures": numDepartures,
			"timeRange":          timeRangeSeconds,
		},
	}
}

// StopQuays asks for the ids of every quay belonging to stopID.
func StopQuays(stopID string) Query {
	return Query{
		Name:     "StopQuays",
		Document: stopQuaysDocument,
		Variables: map[string]any{
			"id": stopID,
		},
	}
}
