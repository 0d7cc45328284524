package journeyplanner

import (
	"context"
	"time"

	"itus/internal/departure"
	"itus/internal/graphql"
)

type quayDeparturesData struct {
	Quay *struct {
		EstimatedCalls *[]departure.EstimatedCall `json:"estimatedCalls"`
	} `json:"quay"`
}

type stopQuaysData struct {
	StopPlace *struct {
		Quays *[]struct {
			ID *string `json:"id"`
		} `json:"quays"`
	} `json:"stopPlace"`
}

// EstimatedCalls fetches up to numDepartures upcoming boarding calls at
// quayID within timeRange. The calls come back raw, in service order.
func (c *Client) EstimatedCalls(ctx context.Context, quayID string, numDepartures int, timeRange time.Duration) ([]departure.EstimatedCall, error) {
	var data quayDeparturesData
	q := graphql.QuayDepartures(quayID, numDepartures, int(timeRange/time.Second))
	if err := c.Execute(ctx, q, &data); err != nil {
		return nil, err
	}

	if data.Quay == nil {
		return nil, c.malformed(departure.Missing("quay"))
	}
	if data.Quay.EstimatedCalls == nil {
		return nil, c.malformed(departure.Missing("quay.estimatedCalls"))
	}
	return *data.Quay.EstimatedCalls, nil
}

// StopQuays resolves a stop place into the ids of its quays, in the order the
// service lists them. Each call queries the service again.
func (c *Client) StopQuays(ctx context.Context, stopID string) ([]string, error) {
	var data stopQuaysData
	if err := c.Execute(ctx, graphql.StopQuays(stopID), &data); err != nil {
		return nil, err
	}

	if data.StopPlace == nil {
		return nil, c.malformed(departure.Missing("stopPlace"))
	}
	if data.StopPlace.Quays == nil {
		return nil, c.malformed(departure.Missing("stopPlace.quays"))
	}

	quays := *data.StopPlace.Quays
	ids := make([]string, 0, len(quays))
	for _, quay := range quays {
		if quay.ID == nil {
			return nil, c.malformed(departure.Missing("stopPlace.quays.id"))
		}
		ids = append(ids, *quay.ID)
	}
	return ids, nil
}

func (c *Client) malformed(err error) error {
	c.metrics.IncMalformed()
	return err
}
