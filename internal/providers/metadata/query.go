package metadata

import (
	"fmt"
	"math"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/content"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
)

// Query keys
const (
	KeySearchTerms  = "search-terms"
	KeyTagsMatchAny = "tags-match-any"
	KeyTagsMatchAll = "tags-match-all"
	KeyLimit        = "limit"
	KeyOffset       = "offset"
	KeySort         = "sort"
	KeyOrder        = "order"
)

// ParseQuery converts a query dictionary into a content query.
func ParseQuery(params map[string]interface{}) (content.Query, error) {
	var q content.Query
	for key, value := range params {
		var err error
		switch key {
		case KeySearchTerms:
			q.Terms, err = asString(key, value)
		case KeyTagsMatchAny:
			q.TagsMatchAny, err = asStrings(key, value)
		case KeyTagsMatchAll:
			q.TagsMatchAll, err = asStrings(key, value)
		case KeyLimit:
			q.Limit, err = asInt(key, value)
		case KeyOffset:
			q.Offset, err = asInt(key, value)
		case KeySort:
			var s string
			if s, err = asString(key, value); err == nil {
				q.Sort, err = content.ParseSort(s)
			}
		case KeyOrder:
			var s string
			if s, err = asString(key, value); err == nil {
				q.Order, err = content.ParseOrder(s)
			}
		default:
			err = fmt.Errorf("%w: invalid query parameter: %s", provider.ErrInvalidRequest, key)
		}
		if err != nil {
			return content.Query{}, err
		}
	}
	return q, nil
}

func asString(key string, v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", typeError(key, "string", v)
	}
	return s, nil
}

func asStrings(key string, v interface{}) ([]string, error) {
	switch t := v.(type) {
	case []string:
		return t, nil
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, typeError(key, "string array", v)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, typeError(key, "string array", v)
}

func asInt(key string, v interface{}) (int, error) {
	var n int64
	switch t := v.(type) {
	case int:
		n = int64(t)
	case int16:
		n = int64(t)
	case uint16:
		n = int64(t)
	case int32:
		n = int64(t)
	case uint32:
		n = int64(t)
	case int64:
		n = t
	case uint64:
		if t > math.MaxInt32 {
			return 0, rangeError(key, v)
		}
		n = int64(t)
	case byte:
		n = int64(t)
	default:
		return 0, typeError(key, "integer", v)
	}
	if n < 0 || n > math.MaxInt32 {
		return 0, rangeError(key, v)
	}
	return int(n), nil
}

func typeError(key, want string, v interface{}) error {
	return fmt.Errorf("%w: %s must be a %s, got %T", provider.ErrInvalidRequest, key, want, v)
}

func rangeError(key string, v interface{}) error {
	return fmt.Errorf("%w: %s out of range: %v", provider.ErrInvalidRequest, key, v)
}
