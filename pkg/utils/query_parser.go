package utils

import (
	"fmt"
	"net/url"
	"strings"

	"itdesk/pkg/types"
)

// ParseFilterFromQuery разбирает search, sort[field], filter[field], limit и page.
// Запятая в filter[field] означает список значений.
func ParseFilterFromQuery(values url.Values) types.Filter {
	page := ParsePageRequest(values)
	filterReq := types.Filter{
		Sort:           make(map[string]string),
		Filter:         make(map[string]interface{}),
		Limit:          int(page.Limit),
		Offset:         int(page.Offset()),
		Page:           int(page.Page),
		WithPagination: values.Get("withPagination") != "false",
	}

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}

		if key == "search" {
			filterReq.Search = strings.TrimSpace(vals[0])
			continue
		}

		if strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]") {
			field := key[5 : len(key)-1]
			direction := strings.ToLower(vals[0])
			if direction == "asc" || direction == "desc" {
				filterReq.Sort[field] = direction
			}
			continue
		}

		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			field := key[7 : len(key)-1]

			if existing, ok := filterReq.Filter[field]; ok {
				filterReq.Filter[field] = fmt.Sprintf("%v,%s", existing, vals[0])
			} else {
				filterReq.Filter[field] = vals[0]
			}
		}
	}

	return filterReq
}
