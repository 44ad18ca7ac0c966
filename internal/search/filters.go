// internal/search/filters.go
package search

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	apperrors "estate-client/internal/common/errors"
	"estate-client/internal/common/logger"
)

const (
	DefaultType  = "all"
	DefaultSort  = "latest"
	DefaultLimit = 9
	MaxLimit     = 100
)

var sortOrders = map[string]SortOrder{
	"latest":     {Field: "createdAt", Order: "desc"},
	"oldest":     {Field: "createdAt", Order: "asc"},
	"price_high": {Field: "regularPrice", Order: "desc"},
	"price_low":  {Field: "regularPrice", Order: "asc"},
}

var validTypes = map[string]bool{"all": true, "rent": true, "sell": true}

// SortLabels lists the accepted sort labels in display order.
func SortLabels() []string {
	return []string{"latest", "oldest", "price_high", "price_low"}
}

// MapSort resolves a sort label to the backend field/order pair.
func MapSort(label string) (SortOrder, bool) {
	o, ok := sortOrders[label]
	return o, ok
}

type Parser struct {
	logger logger.Logger
}

func NewParser(log logger.Logger) *Parser {
	return &Parser{logger: log.WithFields(map[string]interface{}{"component": "search"})}
}

// Parse reads raw form values (strings, bools or numbers) into a Form,
// applying defaults and rejecting unknown type and sort labels.
func (p *Parser) Parse(raw map[string]interface{}) (*Form, error) {
	if raw == nil {
		raw = make(map[string]interface{})
	}

	form := &Form{
		Type:  DefaultType,
		Sort:  DefaultSort,
		Limit: DefaultLimit,
	}

	if v, ok := raw["searchTerm"].(string); ok {
		form.SearchTerm = strings.TrimSpace(v)
	}

	if v, ok := raw["type"]; ok {
		s := strings.TrimSpace(fmt.Sprint(v))
		if s != "" {
			if !validTypes[s] {
				return nil, apperrors.NewInvalidFilterFormatError(fmt.Sprintf("invalid type '%s'", s))
			}
			form.Type = s
		}
	}

	var err error
	if form.Offer, err = parseBool(raw, "offer"); err != nil {
		return nil, err
	}
	if form.Parking, err = parseBool(raw, "parking"); err != nil {
		return nil, err
	}
	if form.Furnished, err = parseBool(raw, "furnished"); err != nil {
		return nil, err
	}

	if v, ok := raw["sort"]; ok {
		s := strings.TrimSpace(fmt.Sprint(v))
		if s != "" {
			if _, known := sortOrders[s]; !known {
				return nil, apperrors.NewInvalidFilterFormatError(fmt.Sprintf("invalid sort '%s'", s))
			}
			form.Sort = s
		}
	}

	if v, ok := raw["limit"]; ok {
		n, err := parseInt(v)
		if err != nil {
			return nil, apperrors.NewInvalidFilterFormatError(fmt.Sprintf("invalid limit: %v", err))
		}
		// non-positive keeps the default, large values are capped
		if n >= 1 {
			form.Limit = min(n, MaxLimit)
		}
	}

	if v, ok := raw["startIndex"]; ok {
		n, err := parseInt(v)
		if err != nil {
			return nil, apperrors.NewInvalidFilterFormatError(fmt.Sprintf("invalid startIndex: %v", err))
		}
		form.StartIndex = n
	}

	p.logger.Debug("Search form parsed", map[string]interface{}{
		"searchTerm": form.SearchTerm,
		"type":       form.Type,
		"sort":       form.Sort,
		"limit":      form.Limit,
		"startIndex": form.StartIndex,
	})
	return form, nil
}

// ParseQuery parses a URL query string, as when a search link is opened.
func (p *Parser) ParseQuery(q url.Values) (*Form, error) {
	raw := make(map[string]interface{}, len(q))
	for k := range q {
		raw[k] = q.Get(k)
	}
	// links carry the backend pair; turn it back into a label
	if _, hasLabel := raw["sort"]; hasLabel && q.Get("order") != "" {
		for label, o := range sortOrders {
			if o.Field == q.Get("sort") && o.Order == q.Get("order") {
				raw["sort"] = label
				break
			}
		}
	}
	return p.Parse(raw)
}

// Values builds the backend query for a form.
func (f Form) Values() (url.Values, error) {
	o, ok := sortOrders[f.Sort]
	if !ok {
		return nil, apperrors.NewInvalidFilterFormatError(fmt.Sprintf("invalid sort '%s'", f.Sort))
	}
	typ := f.Type
	if typ == "" {
		typ = DefaultType
	}
	if !validTypes[typ] {
		return nil, apperrors.NewInvalidFilterFormatError(fmt.Sprintf("invalid type '%s'", typ))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	return url.Values{
		"searchTerm": {f.SearchTerm},
		"type":       {typ},
		"offer":      {strconv.FormatBool(f.Offer)},
		"parking":    {strconv.FormatBool(f.Parking)},
		"furnished":  {strconv.FormatBool(f.Furnished)},
		"sort":       {o.Field},
		"order":      {o.Order},
		"limit":      {strconv.Itoa(limit)},
		"startIndex": {strconv.Itoa(max(f.StartIndex, 0))},
	}, nil
}

// NextPage returns the form for the following page ("show more").
func (f Form) NextPage() Form {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	f.StartIndex += limit
	return f
}

func parseBool(raw map[string]interface{}, key string) (bool, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return false, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		if strings.TrimSpace(b) == "" {
			return false, nil
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, apperrors.NewInvalidFilterFormatError(fmt.Sprintf("invalid %s '%s'", key, b))
		}
		return parsed, nil
	}
	return false, apperrors.NewInvalidFilterFormatError(fmt.Sprintf("invalid %s type %T", key, v))
}

func parseInt(raw interface{}) (int, error) {
	switch v := raw.(type) {
	case nil:
		return 0, errors.New("cannot parse nil as integer")
	case int:
		if v < 0 {
			return 0, errors.New("negative integer not allowed")
		}
		return v, nil
	case float64:
		if v < 0 || v != float64(int(v)) {
			return 0, errors.New("not a valid positive integer")
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, err
		}
		if n < 0 {
			return 0, errors.New("negative integer not allowed")
		}
		return n, nil
	}
	return 0, fmt.Errorf("unsupported type %T", raw)
}
