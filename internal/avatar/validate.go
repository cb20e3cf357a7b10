package avatar

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// rule is one ordered boundary check. Checks run in slice order and the
// first failure wins.
type rule struct {
	field string
	value any
	tag   string
	kind  error
}

func itemRules(item *Item) []rule {
	return []rule{
		{field: "uuid", value: item.UUID, tag: "required", kind: ErrMissingArgument},
		{field: "size", value: item.Size, tag: "required,gt=0", kind: ErrMissingArgument},
		{field: "uuid", value: item.UUID, tag: "uuid", kind: ErrInvalidFormat},
		{field: "url", value: item.URL, tag: "required", kind: ErrMissingArgument},
		{field: "cacheControl", value: item.CacheControl, tag: "required,gt=0", kind: ErrMissingArgument},
	}
}

func queryRules(q *Query) []rule {
	return []rule{
		{field: "item.uuid", value: q.UUID, tag: "required", kind: ErrMissingArgument},
		{field: "item.size", value: q.Size, tag: "required,gt=0", kind: ErrMissingArgument},
		{field: "item.uuid", value: q.UUID, tag: "uuid", kind: ErrInvalidFormat},
	}
}

func check(rules []rule) error {
	for _, r := range rules {
		err := validate.Var(r.value, r.tag)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &ArgumentError{Field: r.field, Kind: r.kind}
		}
		return fmt.Errorf("validate %s: %w", r.field, err)
	}
	return nil
}

// ValidateItem applies the insertion checks without touching any store.
func ValidateItem(item *Item) error {
	if item == nil {
		return missing("item")
	}
	return check(itemRules(item))
}

// ValidateQuery applies the lookup checks without touching any store.
func ValidateQuery(q *Query) error {
	if q == nil {
		return missing("item")
	}
	return check(queryRules(q))
}
