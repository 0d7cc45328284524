package journeyplanner

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TransportError is a failure to get a usable answer from the service:
// connectivity, a non-2xx status, a GraphQL errors array or an undecodable
// body. It is distinct from departure.MalformedResponseError, which covers
// well-formed responses missing required data.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode >= http.StatusMultipleChoices {
		return fmt.Sprintf("journey planner %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("journey planner %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// GraphQLError is one entry of the errors array of a GraphQL response.
type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

type GraphQLErrors []GraphQLError

func (errs GraphQLErrors) Error() string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

const maxBodyExcerpt = 200

// describeBody turns an error response body into something short enough for
// a log line. Gateway error pages are HTML, so their <title> is used.
func describeBody(statusCode int, contentType string, body []byte) string {
	if strings.Contains(contentType, "html") {
		if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
			if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
				return title
			}
			if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
				return h1
			}
		}
	}

	text := strings.Join(strings.Fields(string(body)), " ")
	if text == "" {
		return http.StatusText(statusCode)
	}
	if runes := []rune(text); len(runes) > maxBodyExcerpt {
		text = string(runes[:maxBodyExcerpt]) + "..."
	}
	return text
}
