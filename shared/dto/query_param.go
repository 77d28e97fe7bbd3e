package dto

import (
	"net/http"
	"strconv"
	"tasklist/shared/constant"
	"tasklist/shared/failure"
)

// QueryParams is an offset/limit window over an ordered listing.
type QueryParams struct {
	Skip  int `json:"skip"  validate:"gte=0"`
	Limit int `json:"limit" validate:"gte=0"`
}

// FromRequest populates QueryParams from the HTTP request.
// Missing parameters take the defaults (skip 0, limit 100); malformed or negative
// values are rejected.
// Example:
//
//	q := &dto.QueryParams{}
//	if err := q.FromRequest(req); err != nil { ... }
func (q *QueryParams) FromRequest(r *http.Request) error {
	queryParams := r.URL.Query()

	q.Skip = constant.DefaultValueSkip
	q.Limit = constant.DefaultValueLimit

	if skip := queryParams.Get(constant.RequestParamSkip); skip != "" {
		skipInt, err := strconv.Atoi(skip)
		if err != nil || skipInt < 0 {
			return failure.InvalidSkipParam
		}

		q.Skip = skipInt
	}

	if limit := queryParams.Get(constant.RequestParamLimit); limit != "" {
		limitInt, err := strconv.Atoi(limit)
		if err != nil || limitInt < 0 {
			return failure.InvalidLimitParam
		}

		q.Limit = limitInt
	}

	return nil
}
