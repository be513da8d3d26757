package amadeus

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"flightrank-engine/internal/domain"
)

// Wire shapes for the subset of the flight-offers-search response we read.
type offersResponse struct {
	Data []rawOffer `json:"data"`
}

type rawOffer struct {
	ID    string `json:"id"`
	Price struct {
		Total    string `json:"total"`
		Currency string `json:"currency"`
	} `json:"price"`
	Itineraries []struct {
		Duration string       `json:"duration"` // ISO-8601, e.g. "PT7H10M"
		Segments []rawSegment `json:"segments"`
	} `json:"itineraries"`
}

type rawSegment struct {
	Departure   rawEndpoint `json:"departure"`
	Arrival     rawEndpoint `json:"arrival"`
	CarrierCode string      `json:"carrierCode"`
	Number      string      `json:"number"`
}

type rawEndpoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"` // local time without zone, "2006-01-02T15:04:05"
}

// mapOffer converts a wire offer to the domain shape. The first itinerary's
// first-segment departure and last-segment arrival are the offer's endpoints,
// matching how one-way results are listed.
func mapOffer(raw rawOffer) (domain.FlightOffer, error) {
	var o domain.FlightOffer

	if len(raw.Itineraries) == 0 || len(raw.Itineraries[0].Segments) == 0 {
		return o, fmt.Errorf("offer %s: no segments", raw.ID)
	}
	itin := raw.Itineraries[0]

	price, err := strconv.ParseFloat(raw.Price.Total, 64)
	if err != nil {
		return o, fmt.Errorf("offer %s: bad price %q", raw.ID, raw.Price.Total)
	}

	segments := make([]domain.Segment, 0, len(itin.Segments))
	for _, s := range itin.Segments {
		dep, err := parseAt(s.Departure.At)
		if err != nil {
			return o, fmt.Errorf("offer %s: bad departure time %q", raw.ID, s.Departure.At)
		}
		arr, err := parseAt(s.Arrival.At)
		if err != nil {
			return o, fmt.Errorf("offer %s: bad arrival time %q", raw.ID, s.Arrival.At)
		}
		segments = append(segments, domain.Segment{
			CarrierCode:  s.CarrierCode,
			FlightNumber: s.Number,
			Origin:       s.Departure.IATACode,
			Destination:  s.Arrival.IATACode,
			DepartureAt:  dep,
			ArrivalAt:    arr,
		})
	}

	var dur time.Duration
	if itin.Duration != "" {
		if d, err := parseISODuration(itin.Duration); err == nil {
			dur = d
		}
	}

	o = domain.FlightOffer{
		ID:          raw.ID,
		Provider:    "amadeus",
		Price:       price,
		Currency:    raw.Price.Currency,
		Duration:    dur,
		DepartureAt: segments[0].DepartureAt,
		ArrivalAt:   segments[len(segments)-1].ArrivalAt,
		Stops:       len(segments) - 1,
		Segments:    segments,
	}
	return o, nil
}

func parseAt(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// parseISODuration handles the PnDTnHnMnS subset Amadeus emits.
func parseISODuration(s string) (time.Duration, error) {
	orig := s
	if !strings.HasPrefix(s, "P") {
		return 0, fmt.Errorf("duration %q: missing P", orig)
	}
	s = s[1:]

	var days int
	if i := strings.IndexByte(s, 'D'); i >= 0 {
		n, err := strconv.Atoi(s[:i])
		if err != nil {
			return 0, fmt.Errorf("duration %q: bad days", orig)
		}
		days = n
		s = s[i+1:]
	}

	var d time.Duration
	if strings.HasPrefix(s, "T") {
		s = s[1:]
		num := ""
		for _, r := range s {
			switch r {
			case 'H', 'M', 'S':
				n, err := strconv.Atoi(num)
				if err != nil {
					return 0, fmt.Errorf("duration %q: bad component", orig)
				}
				switch r {
				case 'H':
					d += time.Duration(n) * time.Hour
				case 'M':
					d += time.Duration(n) * time.Minute
				case 'S':
					d += time.Duration(n) * time.Second
				}
				num = ""
			default:
				num += string(r)
			}
		}
		if num != "" {
			return 0, fmt.Errorf("duration %q: trailing %q", orig, num)
		}
	}

	return time.Duration(days)*24*time.Hour + d, nil
}
