package http

import (
	"fmt"
	"net/url"
	"strconv"
)

type geocodeRequest struct {
	Address  string `validate:"required,max=512"`
	Country  string `validate:"omitempty,len=2,alpha"`
	Language string `validate:"omitempty,max=10"`
	Region   string `validate:"omitempty,len=2,alpha"`
}

type reverseRequest struct {
	Lat            *float64 `validate:"required,gte=-90,lte=90"`
	Lng            *float64 `validate:"required,gte=-180,lte=180"`
	Language       string   `validate:"omitempty,max=10"`
	KeepComponents bool
}

func parseGeocodeRequest(q url.Values) geocodeRequest {
	return geocodeRequest{
		Address:  q.Get("address"),
		Country:  q.Get("country"),
		Language: q.Get("language"),
		Region:   q.Get("region"),
	}
}

func parseReverseRequest(q url.Values) (reverseRequest, error) {
	var req reverseRequest
	var err error
	if req.Lat, err = parseOptionalFloat(q, "lat"); err != nil {
		return req, err
	}
	if req.Lng, err = parseOptionalFloat(q, "lng"); err != nil {
		return req, err
	}
	if s := q.Get("keep_components"); s != "" {
		if req.KeepComponents, err = strconv.ParseBool(s); err != nil {
			return req, fmt.Errorf("invalid keep_components %q", s)
		}
	}
	req.Language = q.Get("language")
	return req, nil
}

func parseOptionalFloat(q url.Values, key string) (*float64, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, s)
	}
	return &v, nil
}
